// Package services implements the driving port interfaces.
// Services contain the client-side orchestration logic and call out to
// driven ports (adapters) for every backend or desktop interaction.
//
// Every service is safe for concurrent use. State lives behind a mutex and
// network calls are made with the lock released, so one call is one atomic
// update of the state it owns.
package services

package domain

import "time"

// RegistryStatus summarises the document poll loop.
type RegistryStatus struct {
	// LastRefresh is when a snapshot was last applied.
	LastRefresh time.Time

	// LastError is the message of the most recent failed refresh, cleared on success.
	LastError string

	// Refreshes counts applied snapshots.
	Refreshes int

	// Discarded counts responses dropped because a newer refresh was issued.
	Discarded int
}

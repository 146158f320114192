package driving

import (
	"context"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// DocumentRegistry keeps the live list of backend documents.
type DocumentRegistry interface {
	// Documents returns the current snapshot in backend order.
	Documents() []domain.Document

	// Ready returns the ready subset of the snapshot.
	Ready() []domain.Document

	// Refresh replaces the snapshot from the backend. A failed refresh keeps
	// the previous snapshot; a response overtaken by a newer refresh is dropped.
	Refresh(ctx context.Context) error

	// Delete removes a document and refreshes on success.
	Delete(ctx context.Context, docID string) error

	// Run refreshes immediately and then on the poll interval until Stop is
	// called or ctx is cancelled. It blocks.
	Run(ctx context.Context) error

	// Stop ends Run and waits for it to return.
	Stop()

	// Subscribe returns a channel that receives a value after each applied snapshot.
	// Notifications are coalesced; a slow reader sees the latest state on its next read.
	Subscribe() <-chan struct{}

	// Status reports poll loop health.
	Status() domain.RegistryStatus
}

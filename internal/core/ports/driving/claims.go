package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

// ClaimsService holds the claims snapshot.
type ClaimsService interface {
	// Load replaces the snapshot from the backend. When loads overlap, the
	// response to the most recently issued load wins.
	Load(ctx context.Context) error

	// Claims returns the snapshot in server order.
	Claims() []domain.Claim

	// Filter returns the claims of category. CategoryAll returns the snapshot.
	Filter(category domain.ClaimCategory) []domain.Claim

	// Groups returns the filtered claims grouped by document.
	Groups(category domain.ClaimCategory) []domain.ClaimGroup

	// NeedsLoad reports whether entering the claims view should reload.
	NeedsLoad() bool

	// LoadedAt returns when the snapshot was applied, zero if never.
	LoadedAt() time.Time
}

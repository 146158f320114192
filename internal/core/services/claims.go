package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure ClaimsService implements the interface.
var _ driving.ClaimsService = (*ClaimsService)(nil)

// ClaimsService caches the claim snapshot.
//
// With staleAfter zero every entry to the claims view reloads. A positive
// staleAfter serves the cached snapshot until it is that old.
type ClaimsService struct {
	backend    driven.Backend
	staleAfter time.Duration
	now        func() time.Time

	mu       sync.Mutex
	claims   []domain.Claim
	loaded   bool
	loadedAt time.Time
	issued   uint64
}

// NewClaimsService creates a claims service.
func NewClaimsService(backend driven.Backend, staleAfter time.Duration) *ClaimsService {
	return &ClaimsService{
		backend:    backend,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Load fetches the claim set. A failed load keeps the previous snapshot.
func (s *ClaimsService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	claims, err := s.backend.ListClaims(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued {
		logger.Debug("claims: dropped load %d, %d is newer", seq, s.issued)
		return nil
	}
	if err != nil {
		logger.Warn("claims: load failed: %v", err)
		return fmt.Errorf("load claims: %w", err)
	}

	if claims == nil {
		claims = []domain.Claim{}
	}
	s.claims = claims
	s.loaded = true
	s.loadedAt = s.now()
	logger.Debug("claims: loaded %d claims", len(claims))
	return nil
}

// Claims returns the snapshot.
func (s *ClaimsService) Claims() []domain.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Claim(nil), s.claims...)
}

// Filter returns the claims of category in server order.
func (s *ClaimsService) Filter(category domain.ClaimCategory) []domain.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FilterClaims(s.claims, category)
}

// Groups returns the claims of category grouped by document.
func (s *ClaimsService) Groups(category domain.ClaimCategory) []domain.ClaimGroup {
	return domain.GroupClaims(s.Filter(category))
}

// NeedsLoad reports whether the snapshot should be reloaded.
func (s *ClaimsService) NeedsLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || s.staleAfter <= 0 {
		return true
	}
	return s.now().Sub(s.loadedAt) >= s.staleAfter
}

// LoadedAt returns when the snapshot was applied.
func (s *ClaimsService) LoadedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedAt
}

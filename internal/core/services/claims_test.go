package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
)

func claimSnapshot() []domain.Claim {
	return []domain.Claim{
		{ID: 1, DocID: "doc-a", Filename: "a.pdf", Page: 1, Category: domain.CategoryFinding},
		{ID: 2, DocID: "doc-b", Filename: "b.pdf", Page: 2, Category: domain.CategoryMethod},
		{ID: 3, DocID: "doc-a", Filename: "a.pdf", Page: 3, Category: domain.CategoryLimitation},
		{ID: 4, DocID: "doc-b", Filename: "b.pdf", Page: 5, Category: domain.ClaimCategory("novel")},
	}
}

func TestClaimsService_Load(t *testing.T) {
	svc := NewClaimsService(&mockBackend{claims: claimSnapshot()}, 0)

	require.NoError(t, svc.Load(context.Background()))

	assert.Len(t, svc.Claims(), 4)
	assert.False(t, svc.LoadedAt().IsZero())
}

func TestClaimsService_LoadFailureKeepsSnapshot(t *testing.T) {
	backend := &mockBackend{claims: claimSnapshot()}
	svc := NewClaimsService(backend, 0)
	require.NoError(t, svc.Load(context.Background()))

	backend.claimsErr = domain.ErrBackend
	assert.ErrorIs(t, svc.Load(context.Background()), domain.ErrBackend)
	assert.Len(t, svc.Claims(), 4)
}

func TestClaimsService_Filter(t *testing.T) {
	svc := NewClaimsService(&mockBackend{claims: claimSnapshot()}, 0)
	require.NoError(t, svc.Load(context.Background()))

	for _, cat := range domain.ClaimCategories() {
		for _, c := range svc.Filter(cat) {
			assert.Equal(t, cat, c.Category)
		}
	}
	assert.Equal(t, svc.Claims(), svc.Filter(domain.CategoryAll))
	assert.Empty(t, svc.Filter(domain.ClaimCategory("nope")))
}

func TestClaimsService_Groups(t *testing.T) {
	svc := NewClaimsService(&mockBackend{claims: claimSnapshot()}, 0)
	require.NoError(t, svc.Load(context.Background()))

	groups := svc.Groups(domain.CategoryAll)
	require.Len(t, groups, 2)
	assert.Equal(t, "doc-a", groups[0].DocID)
	assert.Equal(t, "a.pdf", groups[0].Filename)
	assert.Equal(t, []int{1, 3}, []int{groups[0].Claims[0].ID, groups[0].Claims[1].ID})
	// The unrecognised category is still grouped.
	assert.Equal(t, 4, groups[1].Claims[1].ID)

	methods := svc.Groups(domain.CategoryMethod)
	require.Len(t, methods, 1)
	assert.Equal(t, "doc-b", methods[0].DocID)
}

func TestClaimsService_LastIssuedLoadWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex

	backend := &mockBackend{}
	backend.claimsFn = func(context.Context) ([]domain.Claim, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return claimSnapshot()[:1], nil
		}
		return claimSnapshot(), nil
	}
	svc := NewClaimsService(backend, 0)

	done := make(chan error)
	go func() { done <- svc.Load(context.Background()) }()
	<-started
	require.NoError(t, svc.Load(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Len(t, svc.Claims(), 4)
}

func TestClaimsService_NeedsLoad_ReloadEveryEntry(t *testing.T) {
	svc := NewClaimsService(&mockBackend{}, 0)
	assert.True(t, svc.NeedsLoad())

	require.NoError(t, svc.Load(context.Background()))
	assert.True(t, svc.NeedsLoad())
}

func TestClaimsService_NeedsLoad_StaleAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewClaimsService(&mockBackend{}, time.Minute)
	svc.now = func() time.Time { return now }

	assert.True(t, svc.NeedsLoad(), "never loaded")
	require.NoError(t, svc.Load(context.Background()))
	assert.False(t, svc.NeedsLoad())

	now = now.Add(59 * time.Second)
	assert.False(t, svc.NeedsLoad())

	now = now.Add(time.Second)
	assert.True(t, svc.NeedsLoad())
}

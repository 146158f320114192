package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure RegistryService implements the interface.
var _ driving.DocumentRegistry = (*RegistryService)(nil)

// RegistryService polls the backend document list.
// Each refresh takes a sequence number when it is issued; a response is only
// applied if no later refresh has been issued since.
type RegistryService struct {
	backend  driven.Backend
	interval time.Duration
	now      func() time.Time

	mu          sync.Mutex
	docs        []domain.Document
	issued      uint64
	status      domain.RegistryStatus
	subscribers []chan struct{}
	onDeleted   []func(docID string)

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRegistryService creates a registry that polls every interval.
// A non-positive interval uses domain.DefaultPollInterval.
func NewRegistryService(backend driven.Backend, interval time.Duration) *RegistryService {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	return &RegistryService{
		backend:  backend,
		interval: interval,
		now:      time.Now,
	}
}

// Documents returns the current snapshot.
func (r *RegistryService) Documents() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Document(nil), r.docs...)
}

// Ready returns the ready documents of the current snapshot.
func (r *RegistryService) Ready() []domain.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.ReadyDocuments(r.docs)
}

// Status reports poll loop health.
func (r *RegistryService) Status() domain.RegistryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Refresh fetches the document list and replaces the snapshot wholesale.
func (r *RegistryService) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	docs, err := r.backend.ListDocuments(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.issued {
		r.status.Discarded++
		logger.Debug("registry: dropped refresh %d, %d is newer", seq, r.issued)
		return nil
	}
	if err != nil {
		r.status.LastError = err.Error()
		return fmt.Errorf("refresh documents: %w", err)
	}

	if docs == nil {
		docs = []domain.Document{}
	}
	r.docs = docs
	r.status.LastRefresh = r.now()
	r.status.LastError = ""
	r.status.Refreshes++
	r.notify()
	logger.Debug("registry: applied refresh %d (%d documents)", seq, len(docs))
	return nil
}

// Delete removes a document. On success the registry refreshes immediately;
// on failure the snapshot is left alone until the next poll.
func (r *RegistryService) Delete(ctx context.Context, docID string) error {
	if docID == "" {
		return fmt.Errorf("delete document: %w", domain.ErrInvalidInput)
	}
	if err := r.backend.DeleteDocument(ctx, docID); err != nil {
		logger.Error("registry: delete %s: %v", docID, err)
		return fmt.Errorf("delete document %s: %w", domain.ShortID(docID), err)
	}
	r.mu.Lock()
	hooks := append(([]func(string))(nil), r.onDeleted...)
	r.mu.Unlock()
	for _, fn := range hooks {
		fn(docID)
	}
	if err := r.Refresh(ctx); err != nil {
		logger.Warn("registry: refresh after delete: %v", err)
	}
	return nil
}

// OnDeleted registers fn to run after each successful delete.
func (r *RegistryService) OnDeleted(fn func(docID string)) {
	r.mu.Lock()
	r.onDeleted = append(r.onDeleted, fn)
	r.mu.Unlock()
}

// Subscribe returns a channel that is signalled after each applied snapshot.
func (r *RegistryService) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()
	return ch
}

// notify signals subscribers without blocking (caller must hold lock).
func (r *RegistryService) notify() {
	for _, ch := range r.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Run refreshes immediately and then on every interval. It blocks until Stop
// is called or ctx is cancelled. In-flight requests are cancelled on Stop so
// no snapshot is applied after Stop returns.
func (r *RegistryService) Run(ctx context.Context) error {
	r.runMu.Lock()
	if r.running {
		r.runMu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.wg.Add(1)
	r.runMu.Unlock()
	defer r.wg.Done()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	r.tick(runCtx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.markStopped()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			r.tick(runCtx)
		}
	}
}

// Stop ends Run and waits for the loop to exit.
func (r *RegistryService) Stop() {
	r.runMu.Lock()
	if !r.running {
		r.runMu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	r.runMu.Unlock()

	r.wg.Wait()
}

func (r *RegistryService) markStopped() {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.running {
		r.running = false
		close(r.stopCh)
	}
}

// tick runs one poll. Failures keep the previous snapshot.
func (r *RegistryService) tick(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		logger.Warn("registry: %v", err)
	}
}

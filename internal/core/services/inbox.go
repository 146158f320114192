package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure InboxService implements the interface.
var _ driving.Inbox = (*InboxService)(nil)

// DefaultInboxSettle is how long a file must go without events before upload.
const DefaultInboxSettle = time.Second

// InboxService uploads each new PDF once. A file being copied into the
// directory produces a burst of events; the upload waits for the burst to end.
type InboxService struct {
	upload driving.UploadService
	settle time.Duration

	mu       sync.Mutex
	uploaded map[string]bool
}

// NewInboxService creates an inbox. A non-positive settle uses DefaultInboxSettle.
func NewInboxService(upload driving.UploadService, settle time.Duration) *InboxService {
	if settle <= 0 {
		settle = DefaultInboxSettle
	}
	return &InboxService{
		upload:   upload,
		settle:   settle,
		uploaded: make(map[string]bool),
	}
}

// UploadAll uploads paths in order, skipping those already uploaded.
func (s *InboxService) UploadAll(ctx context.Context, paths []string, report func(domain.InboxResult)) {
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		s.send(ctx, path, report)
	}
}

// Run debounces events and uploads settled paths.
func (s *InboxService) Run(ctx context.Context, events <-chan string, report func(domain.InboxResult)) error {
	pending := make(map[string]time.Time)

	tick := s.settle / 2
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path, ok := <-events:
			if !ok {
				s.UploadAll(ctx, sortedKeys(pending), report)
				return nil
			}
			if s.isUploaded(path) {
				continue
			}
			pending[path] = time.Now()

		case now := <-ticker.C:
			var ready []string
			for path, seen := range pending {
				if now.Sub(seen) >= s.settle {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
			}
			s.UploadAll(ctx, ready, report)
		}
	}
}

func (s *InboxService) send(ctx context.Context, path string, report func(domain.InboxResult)) {
	if s.isUploaded(path) {
		return
	}

	docID, err := s.upload.UploadFile(ctx, path)
	if err != nil {
		logger.Warn("inbox: %v", err)
	} else {
		s.mu.Lock()
		s.uploaded[path] = true
		s.mu.Unlock()
	}

	if report != nil {
		report(domain.InboxResult{Path: path, DocID: docID, Err: err})
	}
}

func (s *InboxService) isUploaded(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploaded[path]
}

func sortedKeys(m map[string]time.Time) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

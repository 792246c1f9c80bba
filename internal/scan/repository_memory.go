package scan

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository backs tests and local development without Postgres.
type InMemoryRepository struct {
	mu    sync.Mutex
	scans map[string]*Scan
	order []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{scans: make(map[string]*Scan)}
}

func (r *InMemoryRepository) Create(ctx context.Context, s *Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.scans[s.ID] = &cp
	r.order = append(r.order, s.ID)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[id]
	if !ok {
		return nil, ErrScanNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *InMemoryRepository) ClaimPending(ctx context.Context) (*Scan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		s := r.scans[id]
		if s.Status == StatusUploaded {
			s.Status = StatusParsing
			s.UpdatedAt = time.Now()
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) MarkParsed(ctx context.Context, id, menuID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[id]
	if !ok {
		return ErrScanNotFound
	}
	s.Status = StatusParsed
	s.MenuID = &menuID
	s.Error = nil
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[id]
	if !ok {
		return ErrScanNotFound
	}
	s.Status = StatusFailed
	s.Error = &reason
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Retry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[id]
	if !ok {
		return ErrScanNotFound
	}
	if s.Status != StatusFailed {
		return nil
	}
	s.Status = StatusUploaded
	s.Error = nil
	s.UpdatedAt = time.Now()
	return nil
}

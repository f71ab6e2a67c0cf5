package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in a process-lifetime slice. It starts empty and is
// lost on restart.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), nil
}

func (s *MemStore) InsertMany(ctx context.Context, products []Product) ([]Product, error) {
	stored, err := prepareInsert(products)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, stored...)
	return stored, nil
}

func (s *MemStore) Find(ctx context.Context, filter Filter, sort SortSpec) ([]Product, error) {
	s.mu.RLock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.Apply(out)
	return out, nil
}

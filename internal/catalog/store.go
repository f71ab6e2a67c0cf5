package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the catalog backend. Find returns products in insertion order
// before the sort spec is applied, so every backend orders results the same.
type Store interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, products []Product) ([]Product, error)
	Find(ctx context.Context, filter Filter, sort SortSpec) ([]Product, error)
}

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// OpenStore picks the backend once for the life of the process. An empty dsn
// or any failure to reach the durable store selects the in-memory store.
func OpenStore(ctx context.Context, dsn string, log *zap.Logger) (Store, Backend) {
	if log == nil {
		log = zap.NewNop()
	}
	if dsn == "" {
		log.Info("no DATABASE_URL provided, using in-memory store")
		return NewMemStore(), BackendMemory
	}

	s, err := OpenSQLStore(ctx, dsn)
	if err != nil {
		log.Warn("durable store unavailable, using in-memory store", zap.Error(err))
		return NewMemStore(), BackendMemory
	}

	log.Info("connected to durable store", zap.String("backend", string(s.Backend())))
	return s, s.Backend()
}

// prepareInsert validates a batch and assigns fresh ids. Any invalid record
// rejects the whole batch.
func prepareInsert(products []Product) ([]Product, error) {
	out := make([]Product, 0, len(products))
	for i, p := range products {
		np, err := normalize(p)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		np.ID = uuid.NewString()
		out = append(out, np)
	}
	return out, nil
}

// Get looks a product up by id through the store's Find.
func Get(ctx context.Context, s Store, id string) (Product, bool, error) {
	found, err := s.Find(ctx, Filter{"_id": id}, "")
	if err != nil {
		return Product{}, false, err
	}
	if len(found) == 0 {
		return Product{}, false, nil
	}
	return found[0], true, nil
}

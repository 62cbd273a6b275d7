package source

import (
	"context"

	"github.com/vanshika/dronepath/internal/domain"
)

// GraphStore is the subset of repository.Repository used for loading.
type GraphStore interface {
	LoadGraph(ctx context.Context) (domain.Graph, error)
	Ping(ctx context.Context) error
}

// RepositorySource loads snapshots from the graph database.
type RepositorySource struct {
	store GraphStore
}

// NewRepositorySource wraps a graph store.
func NewRepositorySource(store GraphStore) *RepositorySource {
	return &RepositorySource{store: store}
}

func (s *RepositorySource) Load(ctx context.Context) (domain.Graph, error) {
	return s.store.LoadGraph(ctx)
}

func (s *RepositorySource) Probe(ctx context.Context) error {
	return s.store.Ping(ctx)
}

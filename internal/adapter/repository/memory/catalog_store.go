package memory

import (
	"sync"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// CatalogStore keeps the current player feed snapshot in memory.
// The snapshot is replaced as a whole; readers never see a partial update.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog *domain.Catalog
}

// NewCatalogStore constructs a CatalogStore holding catalog, which may be nil
func NewCatalogStore(catalog *domain.Catalog) *CatalogStore {
	return &CatalogStore{catalog: catalog}
}

// Catalog returns the current snapshot, or nil before the first load
func (s *CatalogStore) Catalog() *domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog
}

// SetCatalog replaces the snapshot
func (s *CatalogStore) SetCatalog(catalog *domain.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = catalog
}

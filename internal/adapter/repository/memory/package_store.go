package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// PackageStore holds proposed transfer packages until they are taken for execution.
// Each package can be taken once.
type PackageStore struct {
	mu       sync.Mutex
	packages map[string]*domain.TransferPackage
	byRoster map[uuid.UUID]map[string]struct{}
}

// NewPackageStore constructs an empty PackageStore
func NewPackageStore() *PackageStore {
	return &PackageStore{
		packages: make(map[string]*domain.TransferPackage),
		byRoster: make(map[uuid.UUID]map[string]struct{}),
	}
}

// Put stores pkg, generating a nanoid when it has no ID yet
func (s *PackageStore) Put(pkg *domain.TransferPackage) error {
	if pkg == nil {
		return errors.New("package cannot be nil")
	}
	if pkg.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		pkg.ID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.packages[pkg.ID] = pkg
	ids, ok := s.byRoster[pkg.RosterID]
	if !ok {
		ids = make(map[string]struct{})
		s.byRoster[pkg.RosterID] = ids
	}
	ids[pkg.ID] = struct{}{}
	return nil
}

// Get returns a pending package without consuming it
func (s *PackageStore) Get(id string) (*domain.TransferPackage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, ok := s.packages[id]
	return pkg, ok
}

// Take removes and returns a pending package
func (s *PackageStore) Take(id string) (*domain.TransferPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkg, ok := s.packages[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPackageNotFound, id)
	}
	delete(s.packages, id)
	if ids := s.byRoster[pkg.RosterID]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.byRoster, pkg.RosterID)
		}
	}
	return pkg, nil
}

// DiscardRoster drops every pending package of a roster
func (s *PackageStore) DiscardRoster(rosterID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byRoster[rosterID] {
		delete(s.packages, id)
	}
	delete(s.byRoster, rosterID)
}

// Len returns the number of pending packages
func (s *PackageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.packages)
}

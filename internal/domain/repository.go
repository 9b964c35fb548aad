package domain

import (
	"context"

	"github.com/google/uuid"
)

// RosterRepository defines the interface for roster persistence operations
type RosterRepository interface {
	// Get retrieves the persisted state of a roster
	// Returns ErrRosterNotFound (wrapped) when no roster has this ID
	Get(ctx context.Context, id uuid.UUID) (*RosterState, error)

	// Save replaces the whole persisted state of a roster, creating it if needed
	Save(ctx context.Context, state *RosterState) error
}

// TransferRecordRepository defines the interface for transfer history persistence operations
type TransferRecordRepository interface {
	// Create stores a record with all its entries
	Create(ctx context.Context, record *TransferRecord) error

	// List retrieves a roster's records, newest first
	// limit and offset are used for pagination
	List(ctx context.Context, rosterID uuid.UUID, limit, offset int) ([]*TransferRecord, error)
}

// CatalogSource returns the current player/club snapshot
type CatalogSource interface {
	Catalog() *Catalog
}

// PackageRepository holds proposed transfer packages until they are executed or discarded
type PackageRepository interface {
	// Put stores pkg, assigning a fresh ID when pkg.ID is empty
	Put(pkg *TransferPackage) error

	// Take removes and returns the package; ErrPackageNotFound if absent
	Take(id string) (*TransferPackage, error)

	// DiscardRoster drops every pending package for the roster
	DiscardRoster(rosterID uuid.UUID)
}

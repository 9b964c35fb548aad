package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// RosterStore is a RosterRepository kept in process memory.
// States are copied on the way in and out so callers cannot alias stored values.
type RosterStore struct {
	mu      sync.RWMutex
	rosters map[uuid.UUID]*domain.RosterState
}

// NewRosterStore constructs an empty RosterStore
func NewRosterStore() *RosterStore {
	return &RosterStore{rosters: make(map[uuid.UUID]*domain.RosterState)}
}

// Get retrieves a copy of the stored state
func (s *RosterStore) Get(ctx context.Context, id uuid.UUID) (*domain.RosterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.rosters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRosterNotFound, id)
	}
	return copyState(state), nil
}

// Save replaces the stored state
func (s *RosterStore) Save(ctx context.Context, state *domain.RosterState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", domain.ErrInvalidRoster)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rosters[state.ID] = copyState(state)
	return nil
}

func copyState(state *domain.RosterState) *domain.RosterState {
	c := *state
	c.Slots = make([]domain.SlotState, len(state.Slots))
	for i, slot := range state.Slots {
		c.Slots[i] = slot
		c.Slots[i].PlayerID = copyInt(slot.PlayerID)
	}
	c.CaptainID = copyInt(state.CaptainID)
	c.ViceCaptainID = copyInt(state.ViceCaptainID)
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// TransferLog is a TransferRecordRepository kept in process memory
type TransferLog struct {
	mu      sync.RWMutex
	records []*domain.TransferRecord
}

// NewTransferLog constructs an empty TransferLog
func NewTransferLog() *TransferLog {
	return &TransferLog{}
}

// Create appends a validated record
func (l *TransferLog) Create(ctx context.Context, record *domain.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)
	return nil
}

// List returns a roster's records, newest first
func (l *TransferLog) List(ctx context.Context, rosterID uuid.UUID, limit, offset int) ([]*domain.TransferRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]*domain.TransferRecord, 0)
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].RosterID == rosterID {
			matched = append(matched, l.records[i])
		}
	}
	// equal timestamps keep reverse insertion order
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*domain.TransferRecord{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

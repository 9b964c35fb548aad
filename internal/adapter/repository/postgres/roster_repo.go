package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// rosterRepository implements domain.RosterRepository
type rosterRepository struct {
	db *DB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *DB) domain.RosterRepository {
	return &rosterRepository{db: db}
}

// Get retrieves a roster state with its slots in layout order
func (r *rosterRepository) Get(ctx context.Context, id uuid.UUID) (*domain.RosterState, error) {
	query := `
		SELECT budget, captain_id, vice_captain_id
		FROM rosters
		WHERE id = $1
	`

	state := &domain.RosterState{ID: id}
	var captain, vice sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(&state.Budget, &captain, &vice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRosterNotFound, id)
		}
		return nil, fmt.Errorf("failed to get roster by ID: %w", err)
	}
	state.CaptainID = nullableInt(captain)
	state.ViceCaptainID = nullableInt(vice)

	slotsQuery := `
		SELECT slot_id, position, is_starter, player_id
		FROM roster_slots
		WHERE roster_id = $1
		ORDER BY sort_order
	`

	rows, err := r.db.QueryContext(ctx, slotsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot domain.SlotState
		var position int
		var player sql.NullInt64
		if err := rows.Scan(&slot.SlotID, &position, &slot.IsStarter, &player); err != nil {
			return nil, fmt.Errorf("failed to scan roster slot: %w", err)
		}
		slot.Type = domain.Position(position)
		slot.PlayerID = nullableInt(player)
		state.Slots = append(state.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster slots: %w", err)
	}

	return state, nil
}

// Save writes the whole roster state in a database transaction
func (r *rosterRepository) Save(ctx context.Context, state *domain.RosterState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", domain.ErrInvalidRoster)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	upsertQuery := `
		INSERT INTO rosters (id, budget, captain_id, vice_captain_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			budget = EXCLUDED.budget,
			captain_id = EXCLUDED.captain_id,
			vice_captain_id = EXCLUDED.vice_captain_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err = dbTx.ExecContext(ctx, upsertQuery, state.ID, state.Budget, nullInt(state.CaptainID), nullInt(state.ViceCaptainID))
	if err != nil {
		return fmt.Errorf("failed to upsert roster: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM roster_slots WHERE roster_id = $1`, state.ID); err != nil {
		return fmt.Errorf("failed to clear roster slots: %w", err)
	}

	insertSlotQuery := `
		INSERT INTO roster_slots (roster_id, slot_id, sort_order, position, is_starter, player_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, slot := range state.Slots {
		_, err = dbTx.ExecContext(ctx, insertSlotQuery,
			state.ID,
			slot.SlotID,
			i,
			int(slot.Type),
			slot.IsStarter,
			nullInt(slot.PlayerID),
		)
		if err != nil {
			return fmt.Errorf("failed to insert roster slot %s: %w", slot.SlotID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// RosterRepository implements domain.RosterRepository
type RosterRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: db, now: time.Now}
}

// Get retrieves a roster state with its slots in layout order
func (r *RosterRepository) Get(ctx context.Context, id uuid.UUID) (*domain.RosterState, error) {
	state := &domain.RosterState{ID: id}
	var captain, vice sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT budget, captain_id, vice_captain_id FROM rosters WHERE id = ?`, id.String(),
	).Scan(&state.Budget, &captain, &vice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRosterNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	state.CaptainID = nullableInt(captain)
	state.ViceCaptainID = nullableInt(vice)

	rows, err := r.db.QueryContext(ctx, `
		SELECT slot_id, position, is_starter, player_id
		FROM roster_slots
		WHERE roster_id = ?
		ORDER BY sort_order
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query roster slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot domain.SlotState
		var player sql.NullInt64
		if err := rows.Scan(&slot.SlotID, &slot.Type, &slot.IsStarter, &player); err != nil {
			return nil, fmt.Errorf("failed to scan roster slot: %w", err)
		}
		slot.PlayerID = nullableInt(player)
		state.Slots = append(state.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster slots: %w", err)
	}

	return state, nil
}

// Save writes the whole roster state in one database transaction
func (r *RosterRepository) Save(ctx context.Context, state *domain.RosterState) error {
	if state == nil {
		return fmt.Errorf("%w: state cannot be nil", domain.ErrInvalidRoster)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO rosters (id, budget, captain_id, vice_captain_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			budget = excluded.budget,
			captain_id = excluded.captain_id,
			vice_captain_id = excluded.vice_captain_id,
			updated_at = excluded.updated_at
	`, state.ID.String(), state.Budget, nullInt(state.CaptainID), nullInt(state.ViceCaptainID), r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert roster: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM roster_slots WHERE roster_id = ?`, state.ID.String()); err != nil {
		return fmt.Errorf("failed to clear roster slots: %w", err)
	}

	for i, slot := range state.Slots {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO roster_slots (roster_id, slot_id, sort_order, position, is_starter, player_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, state.ID.String(), slot.SlotID, i, int(slot.Type), slot.IsStarter, nullInt(slot.PlayerID))
		if err != nil {
			return fmt.Errorf("failed to insert roster slot %s: %w", slot.SlotID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// transferRecordRepository implements domain.TransferRecordRepository
type transferRecordRepository struct {
	db *DB
}

// NewTransferRecordRepository creates a new transfer history repository
func NewTransferRecordRepository(db *DB) domain.TransferRecordRepository {
	return &transferRecordRepository{db: db}
}

// Create creates a new transfer record with all its entries in a database transaction
func (r *transferRecordRepository) Create(ctx context.Context, record *domain.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertRecordQuery := `
		INSERT INTO transfer_records (id, roster_id, kind, budget_delta, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = dbTx.ExecContext(ctx, insertRecordQuery,
		record.ID,
		record.RosterID,
		string(record.Kind),
		record.BudgetDelta,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer record: %w", err)
	}

	insertEntryQuery := `
		INSERT INTO transfer_entries (id, record_id, sort_order, slot_id, out_player_id, in_player_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, entry := range record.Entries {
		_, err = dbTx.ExecContext(ctx, insertEntryQuery,
			entry.ID,
			record.ID,
			i,
			entry.SlotID,
			sql.NullInt64{Int64: int64(entry.OutPlayerID), Valid: entry.OutPlayerID != 0},
			sql.NullInt64{Int64: int64(entry.InPlayerID), Valid: entry.InPlayerID != 0},
		)
		if err != nil {
			return fmt.Errorf("failed to insert transfer entry: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List returns a roster's transfer records, newest first.
// Entries are loaded with a single join over the selected page.
func (r *transferRecordRepository) List(ctx context.Context, rosterID uuid.UUID, limit, offset int) ([]*domain.TransferRecord, error) {
	query := `
		WITH page AS (
			SELECT seq, id, roster_id, kind, budget_delta, created_at
			FROM transfer_records
			WHERE roster_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2 OFFSET $3
		)
		SELECT p.id, p.roster_id, p.kind, p.budget_delta, p.created_at,
		       e.id, e.slot_id, e.out_player_id, e.in_player_id
		FROM page p
		JOIN transfer_entries e ON e.record_id = p.id
		ORDER BY p.created_at DESC, p.seq DESC, e.sort_order
	`

	var limitArg sql.NullInt64
	if limit > 0 {
		limitArg = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, rosterID, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.TransferRecord, 0)
	var current *domain.TransferRecord
	for rows.Next() {
		var record domain.TransferRecord
		var kind string
		var entry domain.TransferEntry
		var out, in sql.NullInt64

		err := rows.Scan(
			&record.ID,
			&record.RosterID,
			&kind,
			&record.BudgetDelta,
			&record.CreatedAt,
			&entry.ID,
			&entry.SlotID,
			&out,
			&in,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer record: %w", err)
		}

		if current == nil || current.ID != record.ID {
			record.Kind = domain.TransferKind(kind)
			current = &record
			records = append(records, current)
		}
		entry.RecordID = current.ID
		entry.OutPlayerID = int(out.Int64)
		entry.InPlayerID = int(in.Int64)
		current.Entries = append(current.Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer records: %w", err)
	}

	return records, nil
}

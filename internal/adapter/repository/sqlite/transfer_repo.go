package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// TransferRecordRepository implements domain.TransferRecordRepository
type TransferRecordRepository struct {
	db *sql.DB
}

// NewTransferRecordRepository creates a new transfer history repository
func NewTransferRecordRepository(db *sql.DB) *TransferRecordRepository {
	return &TransferRecordRepository{db: db}
}

// Create stores a record with all its entries in a database transaction
func (r *TransferRecordRepository) Create(ctx context.Context, record *domain.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO transfer_records (id, roster_id, kind, budget_delta, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID.String(), record.RosterID.String(), string(record.Kind), record.BudgetDelta, record.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert transfer record: %w", err)
	}

	for i, entry := range record.Entries {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO transfer_entries (id, record_id, sort_order, slot_id, out_player_id, in_player_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, entry.ID.String(), record.ID.String(), i, entry.SlotID, zeroAsNull(entry.OutPlayerID), zeroAsNull(entry.InPlayerID))
		if err != nil {
			return fmt.Errorf("failed to insert transfer entry: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns a roster's records, newest first
func (r *TransferRecordRepository) List(ctx context.Context, rosterID uuid.UUID, limit, offset int) ([]*domain.TransferRecord, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, roster_id, kind, budget_delta, created_at
		FROM transfer_records
		WHERE roster_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, rosterID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer records: %w", err)
	}

	records := make([]*domain.TransferRecord, 0)
	for rows.Next() {
		var record domain.TransferRecord
		var kind string
		if err := rows.Scan(&record.ID, &record.RosterID, &kind, &record.BudgetDelta, &record.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transfer record: %w", err)
		}
		record.Kind = domain.TransferKind(kind)
		records = append(records, &record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer records: %w", err)
	}

	for _, record := range records {
		if record.Entries, err = r.entries(ctx, record.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *TransferRecordRepository) entries(ctx context.Context, recordID uuid.UUID) ([]domain.TransferEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slot_id, out_player_id, in_player_id
		FROM transfer_entries
		WHERE record_id = ?
		ORDER BY sort_order
	`, recordID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TransferEntry
	for rows.Next() {
		entry := domain.TransferEntry{RecordID: recordID}
		var out, in sql.NullInt64
		if err := rows.Scan(&entry.ID, &entry.SlotID, &out, &in); err != nil {
			return nil, fmt.Errorf("failed to scan transfer entry: %w", err)
		}
		entry.OutPlayerID = int(out.Int64)
		entry.InPlayerID = int(in.Int64)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer entries: %w", err)
	}
	return entries, nil
}

func zeroAsNull(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/club-access-service/internal/domain"
)

// DebugLogFilter narrows a debug log listing.
type DebugLogFilter struct {
	DeviceID *string
	Limit    int
}

// DebugLogRepository stores the append-only NFC audit trail.
type DebugLogRepository interface {
	Create(ctx context.Context, entry *domain.DebugLogEntry) error
	List(ctx context.Context, filter DebugLogFilter) ([]domain.DebugLogEntry, error)
}

type debugLogRepository struct {
	db DB
}

// NewDebugLogRepository builds repository.
func NewDebugLogRepository(db DB) DebugLogRepository {
	return &debugLogRepository{db: db}
}

func (r *debugLogRepository) Create(ctx context.Context, entry *domain.DebugLogEntry) error {
	if entry.Payload == nil {
		entry.Payload = map[string]any{}
	}
	const query = `
        INSERT INTO nfc_debug_logs (token, status, device_id, raw_data)
        VALUES ($1,$2,$3,$4)
        RETURNING id, timestamp`
	return r.db.QueryRow(ctx, query,
		entry.Token,
		entry.Status,
		entry.DeviceID,
		entry.Payload,
	).Scan(&entry.ID, &entry.Timestamp)
}

func (r *debugLogRepository) List(ctx context.Context, filter DebugLogFilter) ([]domain.DebugLogEntry, error) {
	query := `
        SELECT id, token, status, device_id, raw_data, timestamp
        FROM nfc_debug_logs`
	args := []any{}
	if filter.DeviceID != nil {
		args = append(args, *filter.DeviceID)
		query += fmt.Sprintf(" WHERE device_id=$%d", len(args))
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DebugLogEntry
	for rows.Next() {
		var entry domain.DebugLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Token,
			&entry.Status,
			&entry.DeviceID,
			&entry.Payload,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/club-access-service/internal/domain"
)

// RoomRepository manages room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	// ListWithDevice returns rooms whose device id is set and non-empty.
	ListWithDevice(ctx context.Context) ([]domain.Room, error)
	// FindByDeviceID returns the first room other than excludeID using
	// deviceID, or pgx.ErrNoRows.
	FindByDeviceID(ctx context.Context, deviceID string, excludeID int64) (*domain.Room, error)
}

type roomRepository struct {
	db DB
}

// NewRoomRepository builds the repository.
func NewRoomRepository(db DB) RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, name, description, capacity, is_active, room_type, unifi_device_id, created_at, updated_at`

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (name, description, capacity, is_active, room_type, unifi_device_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		room.Name,
		room.Description,
		room.Capacity,
		room.IsActive,
		room.RoomType,
		room.UnifiDeviceID,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	const query = `
        UPDATE rooms SET name=$1, description=$2, capacity=$3, is_active=$4, room_type=$5,
            unifi_device_id=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		room.Name,
		room.Description,
		room.Capacity,
		room.IsActive,
		room.RoomType,
		room.UnifiDeviceID,
		room.ID,
	).Scan(&room.UpdatedAt)
}

func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id=$1`
	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY name`
	return r.list(ctx, query)
}

func (r *roomRepository) ListWithDevice(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms
        WHERE unifi_device_id IS NOT NULL AND unifi_device_id <> ''
        ORDER BY id`
	return r.list(ctx, query)
}

func (r *roomRepository) FindByDeviceID(ctx context.Context, deviceID string, excludeID int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms
        WHERE unifi_device_id=$1 AND id<>$2
        ORDER BY id LIMIT 1`
	return scanRoom(r.db.QueryRow(ctx, query, deviceID, excludeID))
}

func (r *roomRepository) list(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *room)
	}
	return result, rows.Err()
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	if err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.Capacity,
		&room.IsActive,
		&room.RoomType,
		&room.UnifiDeviceID,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}

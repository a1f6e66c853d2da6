package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-access-service/internal/domain"
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func TestMemberFindByName(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewMemberRepository(mock)

	mock.ExpectQuery(`FROM members\s+WHERE LOWER\(first_name\) = LOWER\(\$1\) AND LOWER\(last_name\) = LOWER\(\$2\)`).
		WithArgs("jane", "DOE").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name"}).
			AddRow(int64(7), "Jane", "Doe"))

	members, err := repo.FindByName(context.Background(), "jane", "DOE")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, int64(7), members[0].ID)
	assert.Equal(t, "Jane Doe", members[0].String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberGetByIDNotFound(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewMemberRepository(mock)

	mock.ExpectQuery(`FROM members WHERE id=\$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	member, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Nil(t, member)
	require.NoError(t, mock.ExpectationsWereMet())
}

func roomRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "capacity", "is_active", "room_type", "unifi_device_id", "created_at", "updated_at",
	})
}

func TestRoomListWithDevice(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewRoomRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM rooms\s+WHERE unifi_device_id IS NOT NULL AND unifi_device_id <> ''`).
		WillReturnRows(roomRows().
			AddRow(int64(1), "Blüteraum", "", 4, true, domain.RoomTypeGrow, strPtr("d1"), now, now).
			AddRow(int64(3), "Büro", "", 2, true, domain.RoomTypeOffice, strPtr("d3"), now, now))

	rooms, err := repo.ListWithDevice(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "d1", rooms[0].DeviceID())
	assert.Equal(t, "Büro", rooms[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomFindByDeviceIDExcludesSelf(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewRoomRepository(mock)

	mock.ExpectQuery(`FROM rooms\s+WHERE unifi_device_id=\$1 AND id<>\$2`).
		WithArgs("d1", int64(4)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByDeviceID(context.Background(), "d1", 4)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreate(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewRoomRepository(mock)
	now := time.Now()

	room := &domain.Room{Name: "Trockenraum", Capacity: 1, IsActive: true, RoomType: domain.RoomTypeDrying, UnifiDeviceID: strPtr("d2")}
	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs("Trockenraum", "", 1, true, domain.RoomTypeDrying, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	require.NoError(t, repo.Create(context.Background(), room))
	assert.Equal(t, int64(11), room.ID)
	assert.Equal(t, now, room.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteMissing(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewRoomRepository(mock)

	mock.ExpectExec(`DELETE FROM rooms WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugLogCreate(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewDebugLogRepository(mock)
	now := time.Now()

	entry := &domain.DebugLogEntry{
		Token:    "ABC123",
		Status:   domain.DebugStatusSuccess,
		DeviceID: strPtr("R1"),
		Payload:  map[string]any{"unifi_name": "Jane Doe"},
	}
	mock.ExpectQuery(`INSERT INTO nfc_debug_logs`).
		WithArgs("ABC123", "success", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), now))

	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, now, entry.Timestamp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugLogListFiltersByDevice(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewDebugLogRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM nfc_debug_logs WHERE device_id=\$1 ORDER BY timestamp DESC, id DESC LIMIT \$2`).
		WithArgs("R1", 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "token", "status", "device_id", "raw_data", "timestamp"}).
			AddRow(int64(2), "ABC123", "success", strPtr("R1"), map[string]any{"member_name": "Jane Doe"}, now))

	entries, err := repo.List(context.Background(), DebugLogFilter{DeviceID: strPtr("R1"), Limit: 50})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Doe", entries[0].Payload["member_name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugLogListUnfiltered(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewDebugLogRepository(mock)

	mock.ExpectQuery(`FROM nfc_debug_logs ORDER BY timestamp DESC, id DESC$`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "token", "status", "device_id", "raw_data", "timestamp"}))

	entries, err := repo.List(context.Background(), DebugLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOperatorGetByEmailNormalizes(t *testing.T) {
	mock := setupMockDB(t)
	repo := NewOperatorRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM operators WHERE LOWER\(email\)=\$1`).
		WithArgs("admin@club.test").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "active_flag", "created_at", "updated_at"}).
			AddRow("op-1", "Admin", "admin@club.test", "hash", domain.OperatorRoleAdmin, true, now, now))

	op, err := repo.GetByEmail(context.Background(), "  Admin@Club.test ")
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	assert.Equal(t, domain.OperatorRoleAdmin, op.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

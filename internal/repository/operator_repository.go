package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/club-access-service/internal/domain"
)

// OperatorRepository handles persistence for staff operators.
type OperatorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
}

type operatorRepository struct {
	db DB
}

// NewOperatorRepository instantiates the repository.
func NewOperatorRepository(db DB) OperatorRepository {
	return &operatorRepository{db: db}
}

const operatorColumns = `id, name, email, password_hash, role, active_flag, created_at, updated_at`

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id=$1`, id)
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	return r.fetchSingle(ctx, `SELECT `+operatorColumns+` FROM operators WHERE LOWER(email)=$1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var op domain.Operator
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&op.ID,
		&op.Name,
		&op.Email,
		&op.PasswordHash,
		&op.Role,
		&op.Active,
		&op.CreatedAt,
		&op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

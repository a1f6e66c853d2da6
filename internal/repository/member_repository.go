package repository

import (
	"context"

	"github.com/spec-kit/club-access-service/internal/domain"
)

// MemberRepository reads club members; membership data is owned elsewhere.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	// FindByName matches first and last name case-insensitively. At most
	// two rows are returned, enough to tell unique from ambiguous.
	FindByName(ctx context.Context, firstName, lastName string) ([]domain.Member, error)
}

type memberRepository struct {
	db DB
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(db DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `
        SELECT id, first_name, last_name
        FROM members WHERE id=$1`

	var member domain.Member
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.FirstName,
		&member.LastName,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByName(ctx context.Context, firstName, lastName string) ([]domain.Member, error) {
	const query = `
        SELECT id, first_name, last_name
        FROM members
        WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)
        ORDER BY id
        LIMIT 2`

	rows, err := r.db.Query(ctx, query, firstName, lastName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Member
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(&member.ID, &member.FirstName, &member.LastName); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

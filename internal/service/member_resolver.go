package service

import (
	"context"
	"strings"

	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/repository"
	apperrors "github.com/spec-kit/club-access-service/pkg/util"
)

// MemberResolver maps directory display names onto club members.
type MemberResolver struct {
	members repository.MemberRepository
}

// NewMemberResolver constructs the resolver.
func NewMemberResolver(members repository.MemberRepository) *MemberResolver {
	return &MemberResolver{members: members}
}

// Resolve splits fullName at its first space into first and last name and
// returns the single member matching both, ignoring case. A name without a
// space is ErrInvalidName; zero or several matches are ErrMemberNotFound.
func (r *MemberResolver) Resolve(ctx context.Context, fullName string) (*domain.Member, error) {
	first, last, ok := strings.Cut(strings.TrimSpace(fullName), " ")
	if !ok || first == "" {
		return nil, ErrInvalidName.WithDetails(map[string]any{"name": fullName})
	}

	matches, err := r.members.FindByName(ctx, first, last)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(matches) != 1 {
		return nil, ErrMemberNotFound.WithDetails(map[string]any{
			"name":    fullName,
			"matches": len(matches),
		})
	}
	return &matches[0], nil
}

// Preview is the lenient lookup used when a card is read: first and last
// whitespace-separated words. It returns nil when the name does not point
// at exactly one member.
func (r *MemberResolver) Preview(ctx context.Context, fullName string) (*domain.Member, error) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return nil, nil
	}
	first, last := parts[0], ""
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}

	matches, err := r.members.FindByName(ctx, first, last)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, nil
	}
	return &matches[0], nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-access-service/internal/domain"
)

func TestPreviewUsesFirstAndLastWord(t *testing.T) {
	members := &MockMemberRepository{}
	members.On("FindByName", mock.Anything, "Anna", "Berg").
		Return([]domain.Member{{ID: 3, FirstName: "Anna", LastName: "Berg"}}, nil)
	resolver := NewMemberResolver(members)

	member, err := resolver.Preview(context.Background(), "  Anna  Maria Berg ")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, int64(3), member.ID)
}

func TestPreviewSingleWordAndAmbiguous(t *testing.T) {
	members := &MockMemberRepository{}
	members.On("FindByName", mock.Anything, "Cher", "").Return([]domain.Member{}, nil)
	members.On("FindByName", mock.Anything, "Jane", "Doe").
		Return([]domain.Member{{ID: 1}, {ID: 2}}, nil)
	resolver := NewMemberResolver(members)
	ctx := context.Background()

	member, err := resolver.Preview(ctx, "Cher")
	require.NoError(t, err)
	assert.Nil(t, member)

	member, err = resolver.Preview(ctx, "Jane Doe")
	require.NoError(t, err)
	assert.Nil(t, member)

	member, err = resolver.Preview(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, member)
}

func TestResolveReportsMatchCount(t *testing.T) {
	members := &MockMemberRepository{}
	members.On("FindByName", mock.Anything, "Jane", "Doe").
		Return([]domain.Member{{ID: 1}, {ID: 2}}, nil)

	_, err := NewMemberResolver(members).Resolve(context.Background(), "Jane Doe")
	require.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, ErrMemberNotFound.Code, codeOf(err))
}

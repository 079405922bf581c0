package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/chirp-server/internal/mocks"
	"github.com/dtroode/chirp-server/internal/model"
)

func TestVisibility_CanView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gate := NewVisibility(env.accounts, env.relationships)

	author := env.registerVerified(t, "b@x.com")
	member := env.registerVerified(t, "a@x.com")
	stranger := env.registerVerified(t, "c@x.com")
	require.NoError(t, env.relationship.AddToCircle(ctx, author, member.AccountID))
	require.NoError(t, env.relationship.Follow(ctx, member, author.AccountID))

	public := model.Post{ID: uuid.New(), AuthorID: author.AccountID, Audience: model.AudienceEveryone}
	circle := model.Post{ID: uuid.New(), AuthorID: author.AccountID, Audience: model.AudienceCircle}
	orphan := model.Post{ID: uuid.New(), AuthorID: uuid.New(), Audience: model.AudienceCircle}

	tests := []struct {
		name    string
		viewer  *model.TokenClaims
		post    model.Post
		wantErr error
	}{
		{name: "anonymous on public post", viewer: nil, post: public},
		{name: "stranger on public post", viewer: &stranger, post: public},
		{name: "anonymous on circle post", viewer: nil, post: circle, wantErr: model.ErrUnauthorized},
		{name: "author on circle post", viewer: &author, post: circle},
		{name: "member on circle post", viewer: &member, post: circle},
		{name: "stranger on circle post", viewer: &stranger, post: circle, wantErr: model.ErrForbidden},
		{name: "missing author", viewer: &member, post: orphan, wantErr: model.ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.CanView(ctx, tt.viewer, tt.post)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("banned author", func(t *testing.T) {
		require.NoError(t, env.account.Ban(ctx, author.AccountID))
		assert.ErrorIs(t, gate.CanView(ctx, &member, circle), model.ErrPostNotFound)
		assert.NoError(t, gate.CanView(ctx, &member, public))
	})
}

func TestVisibility_CanView_StoreError(t *testing.T) {
	ctx := context.Background()
	accounts := mocks.NewAccountStore(t)
	relationships := mocks.NewRelationshipStore(t)
	authorID, viewerID := uuid.New(), uuid.New()

	accounts.On("GetByID", ctx, authorID).Return(model.Account{ID: authorID, VerifyStatus: model.VerifyStatusVerified}, nil).Once()
	relationships.On("IsCircleMember", ctx, authorID, viewerID).Return(false, assert.AnError).Once()

	err := NewVisibility(accounts, relationships).CanView(ctx, &model.TokenClaims{AccountID: viewerID},
		model.Post{AuthorID: authorID, Audience: model.AudienceCircle})
	assert.ErrorIs(t, err, assert.AnError)
}

package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/chirp-server/internal/model"
)

func TestPostRepository_ListChildren(t *testing.T) {
	ctx := context.Background()
	r := NewPostRepository()
	author := uuid.New()

	parent, err := r.Create(ctx, model.Post{AuthorID: author, Content: "root"})
	require.NoError(t, err)
	_, err = r.Create(ctx, model.Post{AuthorID: author, Content: "unrelated"})
	require.NoError(t, err)

	var want []uuid.UUID
	for i := 0; i < 5; i++ {
		reply, err := r.Create(ctx, model.Post{AuthorID: author, ParentID: &parent.ID, Content: "reply"})
		require.NoError(t, err)
		want = append(want, reply.ID)
	}

	ids := func(posts []model.Post) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	got, err := r.ListChildren(ctx, parent.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, want[:2], ids(got))

	got, err = r.ListChildren(ctx, parent.ID, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, want[4:], ids(got))

	got, err = r.ListChildren(ctx, parent.ID, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.ListChildren(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookmarkRepository(t *testing.T) {
	ctx := context.Background()
	r := NewBookmarkRepository()
	account, post := uuid.New(), uuid.New()

	first, err := r.Add(ctx, account, post)
	require.NoError(t, err)
	again, err := r.Add(ctx, account, post)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Remove(ctx, account, post))
	require.NoError(t, r.Remove(ctx, account, post))
	assert.Equal(t, 0, r.Len())
}

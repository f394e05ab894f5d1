package feed

import (
	"testing"
	"time"

	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecResolve(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: map[int64]*types.Post{
			42: {ID: 42, UserID: 7, CreatedAt: createdAt, LikesCount: 4, CommentsCount: 2},
		},
	}
	codec := NewCodec(posts, NewRanker(2, 3))

	t.Run("personalized boundary skips score", func(t *testing.T) {
		t.Parallel()

		boundary, err := codec.Resolve(t.Context(), TypePersonalized, 42)
		require.NoError(t, err)

		assert.Equal(t, int64(42), boundary.ID)
		assert.Equal(t, createdAt, boundary.CreatedAt)
		assert.Zero(t, boundary.Score)
	})

	t.Run("public boundary recomputes score from current counts", func(t *testing.T) {
		t.Parallel()

		boundary, err := codec.Resolve(t.Context(), TypePublic, 42)
		require.NoError(t, err)

		assert.Equal(t, 14, boundary.Score)
		assert.Equal(t, int64(42), boundary.ID)
	})

	t.Run("deleted anchor post", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Resolve(t.Context(), TypePersonalized, 999)
		require.ErrorIs(t, err, ErrCursorNotFound)
	})
}

package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankerScore(t *testing.T) {
	t.Parallel()
	ranker := NewRanker(2, 3)

	t.Run("weighted sum", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0, ranker.Score(0, 0))
		assert.Equal(t, 2, ranker.Score(1, 0))
		assert.Equal(t, 3, ranker.Score(0, 1))
		assert.Equal(t, 25, ranker.Score(5, 5))
	})

	t.Run("comments outweigh likes", func(t *testing.T) {
		t.Parallel()
		assert.Greater(t, ranker.Score(0, 1), ranker.Score(1, 0))
	})

	t.Run("custom weights", func(t *testing.T) {
		t.Parallel()
		custom := NewRanker(10, 1)
		assert.Equal(t, 103, custom.Score(10, 3))
	})

	t.Run("non-positive weights fall back to defaults", func(t *testing.T) {
		t.Parallel()
		fallback := NewRanker(0, -1)
		assert.Equal(t, DefaultLikeWeight, fallback.LikeWeight)
		assert.Equal(t, DefaultCommentWeight, fallback.CommentWeight)
	})
}

func TestRankerSQLExpr(t *testing.T) {
	t.Parallel()
	ranker := NewRanker(2, 3)

	expr := ranker.SQLExpr("post")
	assert.Equal(t, "(post.likes_count * 2 + post.comments_count * 3)", expr)
}

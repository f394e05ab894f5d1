package feed

import "fmt"

// Default engagement weights applied when the config leaves them unset.
const (
	DefaultLikeWeight    = 2
	DefaultCommentWeight = 3
)

// Ranker computes the engagement score used to order the public feed.
//
// The same instance feeds both the Go-side score used for cursor boundaries
// and the SQL expression used in query ordering and filtering. Keeping both
// derivations on one set of weights is load-bearing: if the two formulas
// drift, cursor pagination silently skips or duplicates rows.
type Ranker struct {
	LikeWeight    int
	CommentWeight int
}

// NewRanker creates a ranker with the given weights, falling back to the
// defaults for non-positive values.
func NewRanker(likeWeight, commentWeight int) Ranker {
	if likeWeight <= 0 {
		likeWeight = DefaultLikeWeight
	}

	if commentWeight <= 0 {
		commentWeight = DefaultCommentWeight
	}

	return Ranker{
		LikeWeight:    likeWeight,
		CommentWeight: commentWeight,
	}
}

// Score computes a post's engagement score from its like and comment counts.
// Pure integer arithmetic, deterministic.
func (r Ranker) Score(likes, comments int) int {
	return likes*r.LikeWeight + comments*r.CommentWeight
}

// SQLExpr renders the identical scoring formula as a SQL expression over the
// aliased likes_count and comments_count columns.
func (r Ranker) SQLExpr(alias string) string {
	return fmt.Sprintf("(%s.likes_count * %d + %s.comments_count * %d)",
		alias, r.LikeWeight, alias, r.CommentWeight)
}

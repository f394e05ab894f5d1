package types_test

import (
	"strings"
	"testing"

	"github.com/sociumlabs/socium/internal/rest/types"
	"github.com/stretchr/testify/assert"
)

func TestCreatePostRequestValidate(t *testing.T) {
	t.Parallel()

	valid := types.CreatePostRequest{Title: "hello", Content: "world"}
	assert.Empty(t, valid.Validate())

	missingTitle := types.CreatePostRequest{Content: "world"}
	assert.Equal(t, "title is required", missingTitle.Validate())

	missingContent := types.CreatePostRequest{Title: "hello"}
	assert.Equal(t, "content is required", missingContent.Validate())

	longTitle := types.CreatePostRequest{
		Title:   strings.Repeat("x", types.MaxTitleLength+1),
		Content: "world",
	}
	assert.Equal(t, "title is too long", longTitle.Validate())
}

func TestCreateCommentRequestValidate(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&types.CreateCommentRequest{Body: "nice"}).Validate())
	assert.Equal(t, "body is required", (&types.CreateCommentRequest{}).Validate())
}

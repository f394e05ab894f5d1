// Package types defines the REST API wire types.
package types

// Response is the envelope every endpoint replies with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	// Error carries the underlying error text. Only populated when the
	// server runs with exposed errors enabled.
	Error string `json:"error,omitempty"`
}

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// UpdatePostRequest is the payload for editing a post.
type UpdatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// CreateCommentRequest is the payload for commenting on a post.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// MaxTitleLength bounds post titles, matching the database column.
const MaxTitleLength = 255

// Validate checks the create payload.
func (r *CreatePostRequest) Validate() string {
	switch {
	case r.Title == "":
		return "title is required"
	case len(r.Title) > MaxTitleLength:
		return "title is too long"
	case r.Content == "":
		return "content is required"
	default:
		return ""
	}
}

// Validate checks the update payload.
func (r *UpdatePostRequest) Validate() string {
	create := CreatePostRequest{Title: r.Title, Content: r.Content, ImageURL: r.ImageURL}
	return create.Validate()
}

// Validate checks the comment payload.
func (r *CreateCommentRequest) Validate() string {
	if r.Body == "" {
		return "body is required"
	}

	return ""
}

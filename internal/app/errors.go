package app

import "errors"

var (
	// ErrMessageRequired is the chatbot validation failure. It short-circuits
	// before any adapter call and is the only error Chat ever returns.
	ErrMessageRequired = errors.New("Message is required")

	// ErrImageRequired is the detect validation failure for a missing upload.
	ErrImageRequired = errors.New("No image uploaded")

	ErrUsernamePasswordRequired = errors.New("username and password required")
	ErrUsernameTaken            = errors.New("username already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")

	ErrTitleContentRequired = errors.New("title and content required")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostForbidden        = errors.New("post belongs to another user")
)

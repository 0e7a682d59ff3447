package domain

import "errors"

var (
	// ErrNotFound signals a missing video.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate video ID.
	ErrAlreadyExists = errors.New("already exists")
	// ErrFileRequired signals an upload without the media file.
	ErrFileRequired = errors.New("file required")
	// ErrFieldsRequired signals missing title or type.
	ErrFieldsRequired = errors.New("fields required")
	// ErrInvalidType signals a type outside the configured vocabulary.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidNumbering signals a season without an episode (or vice versa) or non-positive numbers.
	ErrInvalidNumbering = errors.New("invalid numbering")
	// ErrUploadTooLarge signals an upload above the configured size limit.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized signals a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited signals too many login attempts.
	ErrRateLimited = errors.New("rate limited")
)

package chat

import "errors"

var (
	ErrEmptyMessage    = errors.New("message text is required")
	ErrStudentRequired = errors.New("student id is required for parent accounts")
	ErrRateLimited     = errors.New("too many requests")
	ErrStudentNotFound = errors.New("student not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrUpstream        = errors.New("chat completion failed")
)

package users

import "errors"

var (
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("account type mismatch")
	ErrNotFound           = errors.New("user not found")
	ErrStudentsOnly       = errors.New("only students can register for vocational courses")
	ErrCourseNotFound     = errors.New("course not found")
)

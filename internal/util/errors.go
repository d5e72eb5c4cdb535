package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrAttemptNotFound    = errors.New("user test not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrPermissionNotFound = errors.New("permission not found")

	ErrTestNotActive = errors.New("test is not active at this time")
	ErrAttemptClosed = errors.New("test is already completed or expired")

	ErrQuestionNotInTest   = errors.New("question does not belong to this test")
	ErrOptionNotInQuestion = errors.New("option does not belong to this question")

	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminRequired      = errors.New("administrator role required")
)

// IsNotFound reports whether err refers to a missing entity. These are
// terminal for the caller; retrying the same request cannot succeed.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrPermissionNotFound)
}

// IsInvalidState reports whether err means the operation was attempted
// outside its legal time window. Only the passage of time changes the outcome.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrTestNotActive) || errors.Is(err, ErrAttemptClosed)
}

// IsConflict reports a referential mismatch between the request and the
// catalog, e.g. an option submitted against a foreign question.
func IsConflict(err error) bool {
	return errors.Is(err, ErrQuestionNotInTest) || errors.Is(err, ErrOptionNotInQuestion)
}

package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrLessonLocked       = errors.New("lesson prerequisite not completed")
	ErrCourseLocked       = errors.New("course prerequisite not completed")
	ErrQuizPassRequired   = errors.New("lesson quiz must be passed to complete the lesson")
	ErrNotSubmitted       = errors.New("quiz has not been submitted")
)

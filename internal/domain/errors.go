package domain

import "errors"

var (
	// ErrSessionNotFound is returned when an assessment id does not match a live session.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrSessionCompleted is returned when answering or resubmitting a consumed session.
	ErrSessionCompleted = errors.New("assessment session already completed")
	// ErrQuestionNotInSession is returned when an answer targets a question outside the drawn set.
	ErrQuestionNotInSession = errors.New("question not part of assessment session")
	// ErrAnswerCountMismatch is a validation failure: questions and answers must pair up.
	ErrAnswerCountMismatch = errors.New("questions and answers must have the same length")
	// ErrMissingField is a validation failure for absent required request fields.
	ErrMissingField = errors.New("missing required field")
	// ErrCorpusEmpty indicates the question corpus could not provide any questions.
	ErrCorpusEmpty = errors.New("question corpus is empty")
	// ErrCourseNotFound indicates an unknown course id.
	ErrCourseNotFound = errors.New("course not found")
)

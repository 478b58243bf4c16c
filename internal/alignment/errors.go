package alignment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAnswer    = errors.New("invalid answer")
	ErrInvalidPosition  = errors.New("invalid reference position")
	ErrInvalidQuestion  = errors.New("invalid question")
	ErrInsufficientData = errors.New("insufficient data")
)

// InvalidAnswerError rejects an answer before any scoring happens.
type InvalidAnswerError struct {
	QuestionID string
	Value      int
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %q (value %d): %s", e.QuestionID, e.Value, e.Reason)
}

func (e *InvalidAnswerError) Is(target error) bool {
	return target == ErrInvalidAnswer
}

// InvalidPositionError is a configuration error in subject reference data.
type InvalidPositionError struct {
	SubjectID  string
	QuestionID string
	Value      int
	Reason     string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("subject %q has invalid position on question %q (value %d): %s",
		e.SubjectID, e.QuestionID, e.Value, e.Reason)
}

func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}

// InvalidQuestionError reports a malformed question set.
type InvalidQuestionError struct {
	QuestionID string
	Reason     string
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("invalid question %q: %s", e.QuestionID, e.Reason)
}

func (e *InvalidQuestionError) Is(target error) bool {
	return target == ErrInvalidQuestion
}

// InsufficientDataError means a subject shares no question with the quiz,
// so no percentage can be computed for it.
type InsufficientDataError struct {
	SubjectID string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("subject %q has no comparable questions", e.SubjectID)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

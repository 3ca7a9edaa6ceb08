// errors.go - Score syntax errors

package mml

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a syntax error by the command that failed.
type ErrorCode int

const (
	ErrNote ErrorCode = iota + 1
	ErrRest
	ErrTempo
	ErrLength
	ErrOctave
	ErrVolume
	ErrTuplet
	ErrChord
	ErrTone
	ErrDoubleTuplet
	ErrTooManyNotes
	ErrTooFewNotes
	ErrComposition
)

var errorCodeText = map[ErrorCode]string{
	ErrNote:         "bad note length",
	ErrRest:         "bad rest length",
	ErrTempo:        "tempo needs a positive number",
	ErrLength:       "length needs a number",
	ErrOctave:       "octave needs a number",
	ErrVolume:       "volume out of range 0-100",
	ErrTuplet:       "unterminated or empty tuplet",
	ErrChord:        "bad chord",
	ErrTone:         "tone needs a number",
	ErrDoubleTuplet: "nested tuplet",
	ErrTooManyNotes: "too many notes in tuplet",
	ErrTooFewNotes:  "too few notes in tuplet",
	ErrComposition:  "unknown command",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeText[c]; ok {
		return s
	}
	return fmt.Sprintf("error code %d", int(c))
}

func (c ErrorCode) Error() string { return "mml: " + c.String() }

var errTieWithoutLength = errors.New("tie without a following length")

// SyntaxError reports a malformed command and the byte offset where the
// command starts.
type SyntaxError struct {
	Code    ErrorCode
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("mml: offset %d: %s", e.Offset, e.Message)
}

// Unwrap lets errors.Is match the error code.
func (e *SyntaxError) Unwrap() error { return e.Code }

package sip2

import "errors"

var (
	// ErrCommandNotFound indicates that a 2-digit command code does not map
	// to any known message type.
	ErrCommandNotFound = errors.New("command not found")

	// ErrUnknownField indicates that a field name or variable field tag does
	// not resolve to any registered field definition.
	ErrUnknownField = errors.New("unknown field")

	// ErrMessageTooShort indicates that a raw line is shorter than the
	// 2-character command prefix.
	ErrMessageTooShort = errors.New("message too short")

	// ErrDuplicateFieldTag indicates that two variable field definitions
	// claim the same 2-character tag.
	ErrDuplicateFieldTag = errors.New("duplicate variable field tag")

	// ErrDuplicateCommand indicates that two message types claim the same
	// command code.
	ErrDuplicateCommand = errors.New("duplicate command code")
)

package roster

import "errors"

var (
	// ErrEmptyRoster is returned when the document lists no participants.
	ErrEmptyRoster = errors.New("roster has no participants")

	// ErrEmptyName is returned when an entry has a blank name.
	ErrEmptyName = errors.New("participant name is empty")

	// ErrEmptyFamily is returned when an entry has a blank family.
	ErrEmptyFamily = errors.New("participant family is empty")

	// ErrDuplicateName is returned when two entries share a name.
	ErrDuplicateName = errors.New("duplicate participant name")

	// ErrUnknownGender is returned for a gender other than male, female or empty.
	ErrUnknownGender = errors.New("unknown gender")

	// ErrUnsupportedFormat is returned for a file extension Load cannot read.
	ErrUnsupportedFormat = errors.New("unsupported roster format")

	// ErrDecode is returned when the document is not valid YAML or JSON.
	ErrDecode = errors.New("failed to decode roster")
)

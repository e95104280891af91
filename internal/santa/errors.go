package santa

import "errors"

// Generation errors.
var (
	// ErrGenerationExhausted is returned when no valid assignment was found
	// within the attempt budget.
	ErrGenerationExhausted = errors.New("no valid assignment found within the attempt budget")

	// ErrNoParticipants is returned when the participant list is empty.
	ErrNoParticipants = errors.New("no participants")

	// ErrInvalidCap is returned for a negative intra-family cap.
	ErrInvalidCap = errors.New("intra-family cap must not be negative")

	// ErrDuplicateParticipant is returned when two participants share a name.
	ErrDuplicateParticipant = errors.New("duplicate participant name")

	// ErrInvalidCapScope is returned when a cap scope cannot be parsed.
	ErrInvalidCapScope = errors.New("invalid cap scope")
)

// Validation errors.
var (
	// ErrDuplicateAssignment means someone receives from more than one giver.
	ErrDuplicateAssignment = errors.New("duplicate assignment")

	// ErrUnknownRecipient means a recipient is not a participant.
	ErrUnknownRecipient = errors.New("unknown recipient")

	// ErrSelfAssignment means a participant was assigned to themself.
	ErrSelfAssignment = errors.New("self assignment")

	// ErrIncompleteAssignment means a participant gives zero or several
	// gifts, or a giver is not a participant.
	ErrIncompleteAssignment = errors.New("incomplete assignment")

	// ErrFamilyCapExceeded means the assignment has more intra-family
	// pairings than allowed.
	ErrFamilyCapExceeded = errors.New("intra-family cap exceeded")
)

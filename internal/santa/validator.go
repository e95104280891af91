package santa

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks the structural invariants of an assignment over
// participants. The checks run in order and stop at the first failure:
//
//  1. nobody receives from two givers (ErrDuplicateAssignment)
//  2. every recipient is a participant (ErrUnknownRecipient)
//  3. nobody gives to themself (ErrSelfAssignment)
//  4. every participant gives exactly once, and every giver is a
//     participant (ErrIncompleteAssignment)
//
// The intra-family cap is not checked here; see CheckFamilyCap.
//
// Returns nil when the assignment is valid, otherwise an error wrapping one of
// the sentinels above.
func Validate(participants []Participant, a Assignment) error {
	received := make(map[string]struct{}, len(a.Pairs))
	for _, p := range a.Pairs {
		if _, dup := received[p.Recipient.Name]; dup {
			return fmt.Errorf("%w: %q receives more than one gift", ErrDuplicateAssignment, p.Recipient.Name)
		}
		received[p.Recipient.Name] = struct{}{}
	}

	known := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		known[p.Name] = struct{}{}
	}
	for _, p := range a.Pairs {
		if _, ok := known[p.Recipient.Name]; !ok {
			return fmt.Errorf("%w: %q is not a participant", ErrUnknownRecipient, p.Recipient.Name)
		}
	}

	for _, p := range a.Pairs {
		if p.Giver.Name == p.Recipient.Name {
			return fmt.Errorf("%w: %q", ErrSelfAssignment, p.Giver.Name)
		}
	}

	gives := make(map[string]int, len(a.Pairs))
	for _, p := range a.Pairs {
		if _, ok := known[p.Giver.Name]; !ok {
			return fmt.Errorf("%w: giver %q is not a participant", ErrIncompleteAssignment, p.Giver.Name)
		}
		gives[p.Giver.Name]++
	}
	for name := range known {
		if gives[name] != 1 {
			return fmt.Errorf("%w: %q gives %d gifts", ErrIncompleteAssignment, name, gives[name])
		}
	}

	return nil
}

// Valid reports whether Validate accepts the assignment.
func Valid(participants []Participant, a Assignment) bool {
	return Validate(participants, a) == nil
}

// Reason returns the short name of a validation failure, suitable for logs.
// It returns "" for nil and "Unknown" for errors that are not validation
// failures.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateAssignment):
		return "DuplicateAssignment"
	case errors.Is(err, ErrUnknownRecipient):
		return "UnknownRecipient"
	case errors.Is(err, ErrSelfAssignment):
		return "SelfAssignment"
	case errors.Is(err, ErrIncompleteAssignment):
		return "IncompleteAssignment"
	case errors.Is(err, ErrFamilyCapExceeded):
		return "FamilyCapExceeded"
	case errors.Is(err, ErrGenerationExhausted):
		return "GenerationExhausted"
	default:
		return "Unknown"
	}
}

// CheckFamilyCap verifies that the assignment has at most max intra-family
// pairings, counted according to scope.
func CheckFamilyCap(a Assignment, max int, scope CapScope) error {
	if scope == CapPerFamily {
		counts := a.IntraFamilyCounts()
		var over []string
		for family, n := range counts {
			if n > max {
				over = append(over, fmt.Sprintf("%s=%d", family, n))
			}
		}
		if len(over) > 0 {
			sort.Strings(over)
			return fmt.Errorf("%w: %s (max %d per family)", ErrFamilyCapExceeded, strings.Join(over, ", "), max)
		}
		return nil
	}

	if n := a.IntraFamilyCount(); n > max {
		return fmt.Errorf("%w: %d intra-family pairings (max %d)", ErrFamilyCapExceeded, n, max)
	}
	return nil
}

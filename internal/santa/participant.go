// Package santa draws gift-exchange assignments.
//
// A draw maps every participant to exactly one other participant so that the
// mapping is a derangement (nobody gives to themself) and the number of
// same-family pairings stays under a configurable cap. Generation uses a
// bounded randomized retry: each attempt walks a shuffled giving order and
// picks recipients greedily, preferring other families, and the whole attempt
// is thrown away as soon as it hits a dead end or breaks the cap.
//
// Participants are never mutated. Generate returns a fresh Assignment owned by
// the caller, and Validate checks the structural invariants of any Assignment.
package santa

import (
	"fmt"
	"strings"
)

// Gender selects the greeting used when a participant's page is rendered.
// It plays no part in the draw.
type Gender string

// Supported genders.
const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// ParseGender parses a gender label, accepting a few common spellings.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnspecified, nil
	case "male", "m", "man", "homme", "h":
		return GenderMale, nil
	case "female", "f", "woman", "femme":
		return GenderFemale, nil
	default:
		return GenderUnspecified, fmt.Errorf("unknown gender %q", s)
	}
}

// Participant is a member of the exchange. Name is the identity key.
type Participant struct {
	Name   string
	Family string
	Gender Gender
}

func (p Participant) String() string {
	return p.Name
}

// Pair is a single giver to recipient assignment.
type Pair struct {
	Giver     Participant
	Recipient Participant
}

// IntraFamily reports whether giver and recipient share a family.
func (p Pair) IntraFamily() bool {
	return p.Giver.Family == p.Recipient.Family
}

// Assignment is the result of a draw.
//
// Pairs are listed in the order the givers appeared in the input.
type Assignment struct {
	Pairs    []Pair
	Attempts int // attempts the generator needed, 0 for hand-built assignments
}

// Len returns the number of pairs.
func (a Assignment) Len() int {
	return len(a.Pairs)
}

// Map returns the assignment as giver name to recipient name.
func (a Assignment) Map() map[string]string {
	m := make(map[string]string, len(a.Pairs))
	for _, p := range a.Pairs {
		m[p.Giver.Name] = p.Recipient.Name
	}
	return m
}

// IntraFamilyCount returns the number of same-family pairings.
func (a Assignment) IntraFamilyCount() int {
	n := 0
	for _, p := range a.Pairs {
		if p.IntraFamily() {
			n++
		}
	}
	return n
}

// IntraFamilyCounts returns the number of same-family pairings per family.
// Families without any intra-family pairing are omitted.
func (a Assignment) IntraFamilyCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range a.Pairs {
		if p.IntraFamily() {
			counts[p.Giver.Family]++
		}
	}
	return counts
}

// Families returns the number of distinct families among the givers.
func (a Assignment) Families() int {
	seen := make(map[string]struct{})
	for _, p := range a.Pairs {
		seen[p.Giver.Family] = struct{}{}
	}
	return len(seen)
}

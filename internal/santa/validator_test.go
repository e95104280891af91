package santa

import (
	"errors"
	"testing"

	"github.com/rampantspark/giftdraw/internal/random"
)

func pairsOf(participants []Participant, edges ...[2]int) Assignment {
	a := Assignment{}
	for _, e := range edges {
		a.Pairs = append(a.Pairs, Pair{Giver: participants[e[0]], Recipient: participants[e[1]]})
	}
	return a
}

func TestValidate(t *testing.T) {
	ps := people("A:X", "B:X", "C:Y")
	stranger := Participant{Name: "Z", Family: "Q"}

	tests := []struct {
		name    string
		a       Assignment
		wantErr error
	}{
		{
			name: "valid cycle",
			a:    pairsOf(ps, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}),
		},
		{
			name:    "duplicate recipient",
			a:       pairsOf(ps, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 0}),
			wantErr: ErrDuplicateAssignment,
		},
		{
			name: "unknown recipient",
			a: Assignment{Pairs: []Pair{
				{Giver: ps[0], Recipient: ps[1]},
				{Giver: ps[1], Recipient: stranger},
				{Giver: ps[2], Recipient: ps[0]},
			}},
			wantErr: ErrUnknownRecipient,
		},
		{
			name:    "self assignment",
			a:       pairsOf(ps, [2]int{0, 0}, [2]int{1, 2}, [2]int{2, 1}),
			wantErr: ErrSelfAssignment,
		},
		{
			name:    "missing giver",
			a:       pairsOf(ps, [2]int{0, 1}, [2]int{1, 0}),
			wantErr: ErrIncompleteAssignment,
		},
		{
			name: "foreign giver",
			a: Assignment{Pairs: []Pair{
				{Giver: ps[0], Recipient: ps[1]},
				{Giver: ps[1], Recipient: ps[2]},
				{Giver: stranger, Recipient: ps[0]},
			}},
			wantErr: ErrIncompleteAssignment,
		},
		{
			name:    "empty assignment",
			a:       Assignment{},
			wantErr: ErrIncompleteAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ps, tt.a)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				if !Valid(ps, tt.a) {
					t.Error("Valid() = false, want true")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if Valid(ps, tt.a) {
				t.Error("Valid() = true, want false")
			}
		})
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	ps := people("A:X", "B:Y")

	// Both a duplicate and a self assignment: the duplicate is reported first.
	a := pairsOf(ps, [2]int{0, 0}, [2]int{1, 0})
	if err := Validate(ps, a); !errors.Is(err, ErrDuplicateAssignment) {
		t.Errorf("Validate() error = %v, want ErrDuplicateAssignment", err)
	}
}

func TestValidate_AcceptsGeneratedAssignments(t *testing.T) {
	ps := people("A:X", "B:X", "C:X", "D:Y", "E:Y", "F:Z", "G:Z", "H:W")
	g := NewGenerator(random.NewSeededSource(5))

	for i := 0; i < 100; i++ {
		a, err := g.Generate(ps, 1)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if err := Validate(ps, a); err != nil {
			t.Fatalf("Validate() = %v for generated %v", err, a.Map())
		}
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrDuplicateAssignment, "DuplicateAssignment"},
		{ErrUnknownRecipient, "UnknownRecipient"},
		{ErrSelfAssignment, "SelfAssignment"},
		{ErrIncompleteAssignment, "IncompleteAssignment"},
		{ErrFamilyCapExceeded, "FamilyCapExceeded"},
		{ErrGenerationExhausted, "GenerationExhausted"},
		{errors.New("boom"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestCheckFamilyCap(t *testing.T) {
	// A and B are family X, C and D are family Y. A<->B and C<->D gives two
	// intra-family pairings in each family.
	ps := people("A:X", "B:X", "C:Y", "D:Y")
	twoEach := pairsOf(ps, [2]int{0, 1}, [2]int{1, 0}, [2]int{2, 3}, [2]int{3, 2})
	// CheckFamilyCap only counts, so a partial assignment is enough here:
	// A->B is the only intra-family pairing.
	oneTotal := pairsOf(ps, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0})

	// A->B and C->D: one per family, two overall.
	onePerFamily := pairsOf(ps, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0})

	tests := []struct {
		name    string
		a       Assignment
		max     int
		scope   CapScope
		wantErr bool
	}{
		{"global within cap", oneTotal, 1, CapGlobal, false},
		{"global exceeded", onePerFamily, 1, CapGlobal, true},
		{"per-family within cap", onePerFamily, 1, CapPerFamily, false},
		{"per-family exceeded", twoEach, 1, CapPerFamily, true},
		{"zero cap", oneTotal, 0, CapGlobal, true},
		{"large cap", twoEach, 4, CapGlobal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFamilyCap(tt.a, tt.max, tt.scope)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFamilyCap() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFamilyCapExceeded) {
				t.Errorf("error = %v, want ErrFamilyCapExceeded", err)
			}
		})
	}
}

func TestAssignmentHelpers(t *testing.T) {
	ps := people("A:X", "B:X", "C:Y")
	a := pairsOf(ps, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0})

	if got := a.Map(); got["B"] != "C" || len(got) != 3 {
		t.Errorf("Map() = %v, want B->C among 3 pairs", got)
	}
	if got := a.IntraFamilyCount(); got != 1 {
		t.Errorf("IntraFamilyCount() = %d, want 1", got)
	}
	if got := a.IntraFamilyCounts(); got["X"] != 1 || len(got) != 1 {
		t.Errorf("IntraFamilyCounts() = %v, want map[X:1]", got)
	}
	if got := a.Families(); got != 2 {
		t.Errorf("Families() = %d, want 2", got)
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in      string
		want    Gender
		wantErr bool
	}{
		{"male", GenderMale, false},
		{" Female ", GenderFemale, false},
		{"f", GenderFemale, false},
		{"homme", GenderMale, false},
		{"", GenderUnspecified, false},
		{"robot", GenderUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGender(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGender(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGender(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package ratings

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect Percentages
	}{
		{
			name:   "plain labels",
			text:   "First: 12%\nSecond: 3%",
			expect: Percentages{SlotFirst: 12, SlotSecond: 3},
		},
		{
			name:   "work term labels",
			text:   "1st Work Term: 12%\n2nd Work Term: 3%",
			expect: Percentages{SlotFirst: 12, SlotSecond: 3},
		},
		{
			name:   "mixed label conventions",
			text:   "First: 7%\n2nd Work Term: 4.5%",
			expect: Percentages{SlotFirst: 7, SlotSecond: 4.5},
		},
		{
			name:   "decimal values",
			text:   "First: 12.75%\nSecond: 0.5%",
			expect: Percentages{SlotFirst: 12.75, SlotSecond: 0.5},
		},
		{
			name:   "zero is present not absent",
			text:   "First: 0%",
			expect: Percentages{SlotFirst: 0},
		},
		{
			name:   "later terms extracted too",
			text:   "Third: 20%\n4th Work Term: 10%",
			expect: Percentages{SlotThird: 20, SlotFourth: 10},
		},
		{
			name:   "no percent bearing lines",
			text:   "No hiring history is available for this posting.",
			expect: Percentages{},
		},
		{
			name:   "label without value on same line ignored",
			text:   "First Work Term\nSomething else entirely",
			expect: Percentages{},
		},
		{
			name:   "surrounding chart noise",
			text:   "Hiring History\nFirst Work Term: 12% (3 of 25)\nSecond Work Term: 8% (2 of 25)\nTotal hired: 25",
			expect: Percentages{SlotFirst: 12, SlotSecond: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(Normalize(tt.text))
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("got %v, want %v", got, tt.expect)
			}
		})
	}
}

// The alternative ordering is fixed: for every slot the plain label is tried
// before the "Nth Work Term" spelling, and the first alternative that matches
// any line wins.
func TestExtractFirstMatchWins(t *testing.T) {
	t.Parallel()

	got := Extract(Normalize("1st Work Term: 9%\nFirst: 5%"))
	if got[SlotFirst] != 5 {
		t.Errorf("expected plain label alternative to win with 5, got %v", got[SlotFirst])
	}

	// Within one alternative, only the first matching line counts.
	got = Extract(Normalize("Second: 3%\nSecond: 8%"))
	if got[SlotSecond] != 3 {
		t.Errorf("expected first matching line to win with 3, got %v", got[SlotSecond])
	}
}

func TestExtractRequiresValueBeforePercent(t *testing.T) {
	t.Parallel()

	// The value must sit immediately before the percent sign.
	got := Extract([]string{"First: 12 percent"})
	if len(got) != 0 {
		t.Errorf("expected no match without a percent sign, got %v", got)
	}
}

// Package ratings extracts historical work-term hire percentages from the
// semi-free-form text of a posting's ratings view and classifies the posting
// as junior-friendly or not.
package ratings

import (
	"regexp"
	"strconv"
)

// Slot is the canonical key for one work-term hiring percentage. The source
// page labels the same slot inconsistently, so multiple spellings collapse
// into one Slot.
type Slot string

const (
	SlotFirst  Slot = "first"
	SlotSecond Slot = "second"
	SlotThird  Slot = "third"
	SlotFourth Slot = "fourth"
)

// Percentages maps a canonical work-term slot to the hire percentage parsed
// for it. An absent slot means the page had no data for it, which is not the
// same as a zero value.
type Percentages map[Slot]float64

// slotPattern ties one label spelling to its canonical slot. A pattern
// matches a label token followed, on the same line, by a number immediately
// preceding a percent sign.
type slotPattern struct {
	slot Slot
	re   *regexp.Regexp
}

// slotPatterns is evaluated in declaration order: for each slot the plain
// label is tried before the "Nth Work Term" spelling, and the first
// alternative that matches any line wins the slot.
var slotPatterns = []slotPattern{
	{SlotFirst, labelPattern(`first`)},
	{SlotFirst, labelPattern(`1st\s+work\s+term`)},
	{SlotSecond, labelPattern(`second`)},
	{SlotSecond, labelPattern(`2nd\s+work\s+term`)},
	{SlotThird, labelPattern(`third`)},
	{SlotThird, labelPattern(`3rd\s+work\s+term`)},
	{SlotFourth, labelPattern(`fourth`)},
	{SlotFourth, labelPattern(`4th\s+work\s+term`)},
}

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + label + `\b.*?(\d+(?:\.\d+)?)%`)
}

// Extract resolves the ordered label patterns against the normalized lines.
// Slots with no matching line are simply absent from the result. Lines
// without any percent token are skipped, so text with no ratings data at all
// yields an empty mapping rather than an error.
func Extract(lines []string) Percentages {
	found := make(Percentages)

	for _, sp := range slotPatterns {
		if _, ok := found[sp.slot]; ok {
			continue
		}

		for _, line := range lines {
			m := sp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}

			found[sp.slot] = value
			break
		}
	}

	return found
}

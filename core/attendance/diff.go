package attendance

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

func rosterLines(cls ClassData) []string {
	lines := make([]string, 0, len(cls.Students))
	for _, st := range cls.Students {
		lines = append(lines, fmt.Sprintf("%d\t%s\n", st.Number, st.Name))
	}
	return lines
}

// RosterDiff returns a unified diff of the seat number / name lines of two versions of a class.
// Empty when both rosters are the same.
func RosterDiff(before, after ClassData) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        rosterLines(before),
		B:        rosterLines(after),
		FromFile: before.Name + " (before)",
		ToFile:   after.Name + " (after)",
		Context:  1,
	})
}

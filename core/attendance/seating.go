package attendance

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ParseSeatNumbers extracts every seat number of a pasted grid, in reading order.
// Tabs, commas, spaces and line breaks are all plain delimiters; full-width digits are accepted.
func ParseSeatNumbers(text string) []int {
	fields := strings.FieldsFunc(width.Fold.String(text), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		if n := ParseSeatNumber(f); n > 0 {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// ReorderStudents re-sequences the class students following `numbers`.
// Each number places the first not yet placed student with that seat number;
// students never mentioned are appended in their prior relative order.
// The result is always a permutation of cls.Students.
func ReorderStudents(cls ClassData, numbers []int) ClassData {
	placed := make([]bool, len(cls.Students))
	ordered := make([]Student, 0, len(cls.Students))

	for _, n := range numbers {
		for i, st := range cls.Students {
			if !placed[i] && st.Number == n {
				placed[i] = true
				ordered = append(ordered, st)
				break
			}
		}
	}
	for i, st := range cls.Students {
		if !placed[i] {
			ordered = append(ordered, st)
		}
	}

	cls.Students = ordered
	return cls
}

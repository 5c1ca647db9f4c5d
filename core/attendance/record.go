package attendance

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// RowShape is the layout of a roster row, decided by its number of cells.
type RowShape int

const (
	RowInvalid     RowShape = iota // 0 or 1 cell
	RowTwoCol                      // number, name
	RowThreeCol                    // class, number, name
	RowFourCol                     // grade, class, number, name
	RowFiveColPlus                 // grade, class, number, last name, first name (extras ignored)
)

// DefaultClassName is used when a row does not name its class.
const DefaultClassName = "A"

var rowShapeNames = map[RowShape]string{
	RowInvalid:     "invalid",
	RowTwoCol:      "two columns",
	RowThreeCol:    "three columns",
	RowFourCol:     "four columns",
	RowFiveColPlus: "five columns or more",
}

func (s RowShape) String() string { return rowShapeNames[s] }

func ShapeOf(cells []string) RowShape {
	switch n := len(cells); {
	case n >= 5:
		return RowFiveColPlus
	case n == 4:
		return RowFourCol
	case n == 3:
		return RowThreeCol
	case n == 2:
		return RowTwoCol
	default:
		return RowInvalid
	}
}

// RosterRecord is a student row, before class aggregation.
type RosterRecord struct {
	Grade     string
	ClassName string
	Number    int // 0 when the seat number could not be parsed
	LastName  string
	FirstName string
}

// Name is the full display name.
func (r RosterRecord) Name() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.LastName + " " + r.FirstName
}

// BuildRecord maps a row of cells to a RosterRecord.
// Returns ErrInsufficientColumns or ErrEmptyName when the row must be skipped.
func BuildRecord(cells []string) (RosterRecord, error) {
	var (
		rec                 RosterRecord
		numField, nameField string
	)

	switch ShapeOf(cells) {
	case RowFiveColPlus:
		rec.Grade, rec.ClassName, numField = cells[0], cells[1], cells[2]
		rec.LastName, rec.FirstName = strings.TrimSpace(cells[3]), strings.TrimSpace(cells[4])
	case RowFourCol:
		rec.Grade, rec.ClassName, numField, nameField = cells[0], cells[1], cells[2], cells[3]
	case RowThreeCol:
		rec.ClassName, numField, nameField = cells[0], cells[1], cells[2]
	case RowTwoCol:
		rec.ClassName, numField, nameField = DefaultClassName, cells[0], cells[1]
	default:
		return RosterRecord{}, ErrInsufficientColumns
	}

	rec.Grade = strings.TrimSpace(rec.Grade)
	rec.ClassName = strings.TrimSpace(rec.ClassName)
	if rec.ClassName == "" {
		rec.ClassName = DefaultClassName
	}
	rec.Number = ParseSeatNumber(numField)
	if rec.LastName == "" {
		rec.LastName, rec.FirstName = SplitName(nameField)
	}

	if rec.Name() == "" {
		return RosterRecord{}, ErrEmptyName
	}
	return rec, nil
}

// SplitName splits a name field on its first (half or full-width) space:
// family name first, the rest is the given name.
func SplitName(field string) (lastName, firstName string) {
	field = strings.TrimSpace(strings.ReplaceAll(field, "　", " "))
	parts := strings.SplitN(field, " ", 2)
	if len(parts) < 2 {
		return field, ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// ParseSeatNumber parses the leading digits of `s` (full-width digits allowed).
// Returns 0 when `s` does not start with a digit or the number is not positive.
func ParseSeatNumber(s string) int {
	s = strings.TrimSpace(width.Fold.String(s))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

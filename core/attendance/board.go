package attendance

// DefaultGridColumns is the number of desks per row on the board.
const DefaultGridColumns = 6

type (
	ClassSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Size int    `json:"size"`
	}

	Seat struct {
		StudentID  string `json:"student_id"`
		Number     int    `json:"number"`
		Name       string `json:"name"`
		FamilyName string `json:"family_name"`
		Status     Status `json:"status"`
		Label      string `json:"label"`
		ShortLabel string `json:"short_label"`
		Row        int    `json:"row"`
		Col        int    `json:"col"`
	}

	// Board is what the presentation layer renders for one class and date.
	Board struct {
		Class     ClassSummary `json:"class"`
		Date      string       `json:"date"`
		Mode      ViewMode     `json:"mode"`
		Columns   int          `json:"columns"`
		Rows      int          `json:"rows"`
		Seats     []Seat       `json:"seats"`     // display order
		Counts    StatusCounts `json:"counts"`
		Absentees []Seat       `json:"absentees"` // everyone not present, display order
	}
)

func (c ClassData) Summary() ClassSummary {
	return ClassSummary{ID: c.ID, Name: c.Name, Size: len(c.Students)}
}

// NewBoard lays out the class students, in order, on a grid of `columns` desks per row.
func NewBoard(cls ClassData, date string, mode ViewMode, columns int) Board {
	if columns <= 0 {
		columns = DefaultGridColumns
	}
	b := Board{
		Class:     cls.Summary(),
		Date:      date,
		Mode:      mode,
		Columns:   columns,
		Rows:      (len(cls.Students) + columns - 1) / columns,
		Seats:     make([]Seat, 0, len(cls.Students)),
		Absentees: []Seat{},
	}
	for i, st := range cls.Students {
		status := st.StatusOn(date)
		seat := Seat{
			StudentID:  st.ID,
			Number:     st.Number,
			Name:       st.Name,
			FamilyName: st.FamilyName(),
			Status:     status,
			Label:      status.Label(),
			ShortLabel: status.ShortLabel(),
			Row:        i / columns,
			Col:        i % columns,
		}
		b.Seats = append(b.Seats, seat)
		b.Counts.add(status)
		if status != StatusPresent {
			b.Absentees = append(b.Absentees, seat)
		}
	}
	return b
}

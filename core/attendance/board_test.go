package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	cls := numberedClass(8)
	cls.Students[1].setStatus(day1, StatusAbsent)
	cls.Students[6].setStatus(day1, StatusLate)

	board := NewBoard(cls, day1, ViewStudent, 3)
	assert.Equal(t, ClassSummary{ID: "class-A", Name: "A組", Size: 8}, board.Class)
	assert.Equal(t, day1, board.Date)
	assert.Equal(t, ViewStudent, board.Mode)
	assert.Equal(t, 3, board.Columns)
	assert.Equal(t, 3, board.Rows)
	require.Len(t, board.Seats, 8)

	seat := board.Seats[6]
	assert.Equal(t, Seat{
		StudentID:  "student-class-A-7",
		Number:     7,
		Name:       "生徒 7",
		FamilyName: "生徒",
		Status:     StatusLate,
		Label:      "遅刻",
		ShortLabel: "遅",
		Row:        2,
		Col:        0,
	}, seat)

	assert.Equal(t, StatusCounts{Present: 6, Absent: 1, Late: 1}, board.Counts)
	require.Len(t, board.Absentees, 2)
	assert.Equal(t, 2, board.Absentees[0].Number)
	assert.Equal(t, 7, board.Absentees[1].Number)
}

func TestNewBoard_Empty(t *testing.T) {
	board := NewBoard(ClassData{ID: "c", Name: "空"}, day1, ViewTeacher, 0)
	assert.Equal(t, DefaultGridColumns, board.Columns)
	assert.Zero(t, board.Rows)
	assert.Empty(t, board.Seats)
	assert.NotNil(t, board.Absentees)
}

package attendance

import (
	"strings"
	"unicode"
)

// DateLayout is the key format of attendance records (yyyy-MM-dd).
const DateLayout = "2006-01-02"

type (
	AttendanceRecord struct {
		Date   string `json:"date"`
		Status Status `json:"status"`
	}

	Student struct {
		ID        string             `json:"id"`
		Number    int                `json:"number"`
		Name      string             `json:"name"`
		LastName  string             `json:"last_name,omitempty"`
		FirstName string             `json:"first_name,omitempty"`
		Records   []AttendanceRecord `json:"records"`
	}

	// ClassData is a named group of students sharing one attendance board.
	// Students order is the seating/display order.
	ClassData struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Students []Student `json:"students"`
	}

	ViewMode string
)

// View modes
const (
	ViewTeacher ViewMode = "teacher" // edit
	ViewStudent ViewMode = "student" // display only
)

func ParseViewMode(s string) (ViewMode, error) {
	switch mode := ViewMode(strings.TrimSpace(s)); mode {
	case ViewTeacher, ViewStudent:
		return mode, nil
	}
	return "", ErrInvalidViewMode
}

// FamilyName is used for compact rendering: LastName if set, else the first token of Name.
func (s Student) FamilyName() string {
	if s.LastName != "" {
		return s.LastName
	}
	if fields := strings.FieldsFunc(s.Name, unicode.IsSpace); len(fields) > 0 {
		return fields[0]
	}
	return s.Name
}

// StatusOn returns the status recorded for `date`, StatusPresent if there is none.
func (s Student) StatusOn(date string) Status {
	for _, rec := range s.Records {
		if rec.Date == date {
			return rec.Status
		}
	}
	return StatusPresent
}

// setStatus upserts the record for `date`: at most one record per date.
func (s *Student) setStatus(date string, status Status) {
	for i := range s.Records {
		if s.Records[i].Date == date {
			s.Records[i].Status = status
			return
		}
	}
	s.Records = append(s.Records, AttendanceRecord{Date: date, Status: status})
}

func (s Student) clone() Student {
	if s.Records != nil {
		s.Records = append(make([]AttendanceRecord, 0, len(s.Records)), s.Records...)
	}
	return s
}

// Clone returns a deep copy of the class.
func (c ClassData) Clone() ClassData {
	if c.Students != nil {
		students := make([]Student, len(c.Students))
		for i, st := range c.Students {
			students[i] = st.clone()
		}
		c.Students = students
	}
	return c
}

func (c ClassData) indexOf(studentID string) int {
	for i, st := range c.Students {
		if st.ID == studentID {
			return i
		}
	}
	return -1
}

// CloneClasses deep copies a class list.
func CloneClasses(classes []ClassData) []ClassData {
	if classes == nil {
		return nil
	}
	cloned := make([]ClassData, len(classes))
	for i, cls := range classes {
		cloned[i] = cls.Clone()
	}
	return cloned
}

// StatusCounts holds the number of students per status on a given date.
type StatusCounts struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	LeaveEarly int `json:"leave_early"`
}

func (sc *StatusCounts) add(status Status) {
	switch status {
	case StatusPresent:
		sc.Present++
	case StatusAbsent:
		sc.Absent++
	case StatusLate:
		sc.Late++
	case StatusLeaveEarly:
		sc.LeaveEarly++
	}
}

func (sc StatusCounts) Total() int {
	return sc.Present + sc.Absent + sc.Late + sc.LeaveEarly
}

// CountStatuses aggregates the students' statuses for `date`.
func CountStatuses(cls ClassData, date string) StatusCounts {
	var counts StatusCounts
	for _, st := range cls.Students {
		counts.add(st.StatusOn(date))
	}
	return counts
}

package attendance

import (
	"fmt"
	"sort"
)

type (
	SkippedRow struct {
		Line   int      `json:"line"`
		Cells  []string `json:"cells"`
		Reason string   `json:"reason"`
	}

	// DuplicateSeat reports a seat number given twice within one imported class.
	// The later row replaced the earlier one.
	DuplicateSeat struct {
		Line     int    `json:"line"`
		ClassID  string `json:"class_id"`
		Number   int    `json:"number"`
		Replaced string `json:"replaced"` // name of the overwritten student
	}

	ImportResult struct {
		Classes    []ClassData     `json:"classes"` // in order of first appearance
		Imported   int             `json:"imported"`
		Skipped    []SkippedRow    `json:"skipped"`
		Duplicates []DuplicateSeat `json:"duplicates"`
	}
)

func (r ImportResult) IsEmpty() bool { return len(r.Classes) == 0 }

// ClassID derives the class key: "class-{grade}-{className}", or "class-{className}" without grade.
func ClassID(grade, className string) string {
	if grade == "" {
		return "class-" + className
	}
	return fmt.Sprintf("class-%s-%s", grade, className)
}

// ClassName derives the display name: "{grade}年{className}組", or "{className}組" without grade.
func ClassName(grade, className string) string {
	if grade == "" {
		return className + "組"
	}
	return fmt.Sprintf("%s年%s組", grade, className)
}

// StudentID derives the student key from its class and seat number.
func StudentID(classID string, number int) string {
	return fmt.Sprintf("student-%s-%d", classID, number)
}

// ParseRoster runs pasted roster text through the tokenizer, record builder and class aggregator.
func ParseRoster(text string) ImportResult {
	return AggregateRows(Tokenize(text))
}

type classBucket struct {
	cls      ClassData
	byNumber map[int]int // seat number -> index in cls.Students
}

// AggregateRows groups rows into classes keyed by derived class id.
// Students of every class are sorted by seat number (stable).
func AggregateRows(rows []Row) ImportResult {
	var (
		result  ImportResult
		order   []string
		buckets = make(map[string]*classBucket)
	)

	for _, row := range rows {
		rec, err := BuildRecord(row.Cells)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.Line, Cells: row.Cells, Reason: err.Error()})
			continue
		}

		classID := ClassID(rec.Grade, rec.ClassName)
		bucket, ok := buckets[classID]
		if !ok {
			bucket = &classBucket{
				cls:      ClassData{ID: classID, Name: ClassName(rec.Grade, rec.ClassName), Students: []Student{}},
				byNumber: make(map[int]int),
			}
			buckets[classID] = bucket
			order = append(order, classID)
		}

		number := rec.Number
		if number == 0 {
			// sequential fallback within the class
			number = len(bucket.cls.Students) + 1
		}
		student := Student{
			ID:        StudentID(classID, number),
			Number:    number,
			Name:      rec.Name(),
			LastName:  rec.LastName,
			FirstName: rec.FirstName,
			Records:   []AttendanceRecord{},
		}

		if idx, dup := bucket.byNumber[number]; dup {
			result.Duplicates = append(result.Duplicates, DuplicateSeat{
				Line:     row.Line,
				ClassID:  classID,
				Number:   number,
				Replaced: bucket.cls.Students[idx].Name,
			})
			bucket.cls.Students[idx] = student
		} else {
			bucket.byNumber[number] = len(bucket.cls.Students)
			bucket.cls.Students = append(bucket.cls.Students, student)
		}
		result.Imported++
	}

	for _, id := range order {
		cls := buckets[id].cls
		sort.SliceStable(cls.Students, func(i, j int) bool { return cls.Students[i].Number < cls.Students[j].Number })
		result.Classes = append(result.Classes, cls)
	}
	return result
}

// MergeClasses merges `incoming` into `existing` keyed by class id.
// A class present in both is fully replaced (no union of students): re-importing a roster is how it gets corrected.
// Existing classes keep their position, new ones are appended.
func MergeClasses(existing, incoming []ClassData) []ClassData {
	merged := make([]ClassData, 0, len(existing)+len(incoming))
	pending := make(map[string]int, len(incoming))
	for i, cls := range incoming {
		pending[cls.ID] = i
	}

	for _, cls := range existing {
		if i, ok := pending[cls.ID]; ok {
			merged = append(merged, incoming[i])
			delete(pending, cls.ID)
			continue
		}
		merged = append(merged, cls)
	}
	for _, cls := range incoming {
		if _, ok := pending[cls.ID]; ok {
			merged = append(merged, cls)
			delete(pending, cls.ID) // same id twice in incoming: first wins
		}
	}
	return merged
}

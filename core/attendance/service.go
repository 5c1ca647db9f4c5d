package attendance

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shusseki/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrEmptyInput          = errors.New("no usable content found")
	ErrClassNotFound       = errors.New("class not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrInvalidStatus       = errors.New("invalid attendance status")
	ErrInvalidDate         = errors.New("invalid date; expected yyyy-MM-dd")
	ErrInvalidViewMode     = errors.New("invalid view mode")
	ErrDisplayMode         = errors.New("attendance cannot be changed in student display mode")
	ErrInsufficientColumns = errors.New("insufficient columns")
	ErrEmptyName           = errors.New("empty name")
)

type (
	// Repository holds the canonical list of classes.
	// UpdateClasses must apply `fn` atomically: either the whole returned list replaces the
	// stored one, or nothing changes (when fn fails).
	Repository interface {
		QueryAllClasses() ([]ClassData, error)
		GetClassByID(id string) (ClassData, error)
		UpdateClasses(fn func(classes []ClassData) ([]ClassData, error)) error
	}

	Selection struct {
		ClassID string   `json:"class_id"` // empty when there is no class at all
		Date    string   `json:"date"`
		Mode    ViewMode `json:"mode"`
	}

	EventType string

	Event struct {
		Type      EventType `json:"type"`
		ClassID   string    `json:"class_id,omitempty"`
		StudentID string    `json:"student_id,omitempty"`
	}

	// Service is the attendance state store. Every command is applied as one whole-collection
	// replacement, so partial updates are never observable.
	Service struct {
		repo        Repository
		logger      core.Logger
		gridColumns int

		mu        sync.RWMutex // guards selection; serializes commands
		selection Selection

		lmu       sync.RWMutex
		listeners []func(Event)
	}
)

// Events
const (
	EventClassesImported  EventType = "classes_imported"
	EventClassDeleted     EventType = "class_deleted"
	EventSeatsReordered   EventType = "seats_reordered"
	EventStatusChanged    EventType = "status_changed"
	EventSelectionChanged EventType = "selection_changed"
)

// Today returns the current date key.
func Today() string {
	return NowFunc().Format(DateLayout)
}

// ParseDate checks that `date` is a yyyy-MM-dd calendar date.
func ParseDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

func NewService(repo Repository, logger core.Logger, gridColumns int) *Service {
	if gridColumns <= 0 {
		gridColumns = DefaultGridColumns
	}
	svc := &Service{
		repo:        repo,
		logger:      logger,
		gridColumns: gridColumns,
		selection:   Selection{Date: Today(), Mode: ViewTeacher},
	}
	if classes, err := repo.QueryAllClasses(); err == nil && len(classes) > 0 {
		svc.selection.ClassID = classes[0].ID
	}
	return svc
}

// Subscribe registers `fn` to be called after every successful command.
func (svc *Service) Subscribe(fn func(Event)) {
	svc.lmu.Lock()
	defer svc.lmu.Unlock()
	svc.listeners = append(svc.listeners, fn)
}

func (svc *Service) publish(evt Event) {
	svc.lmu.RLock()
	listeners := append([]func(Event){}, svc.listeners...)
	svc.lmu.RUnlock()
	for _, fn := range listeners {
		fn(evt)
	}
}

// SeedIfEmpty loads the built-in classes when there is no class at all.
func (svc *Service) SeedIfEmpty() (bool, error) {
	svc.mu.Lock()
	var seeded bool
	err := svc.repo.UpdateClasses(func(classes []ClassData) ([]ClassData, error) {
		if len(classes) > 0 {
			return classes, nil
		}
		seeded = true
		return SeedClasses(svc.selection.Date), nil
	})
	if err == nil && seeded {
		svc.selection.ClassID = "class-" + seedClasses[0].key
	}
	svc.mu.Unlock()

	if err != nil {
		return false, errors.Wrap(err, "seeding classes")
	}
	if seeded {
		svc.logger.Info("seeded built-in classes")
		svc.publish(Event{Type: EventClassesImported})
	}
	return seeded, nil
}

// Queries

func (svc *Service) Classes() ([]ClassData, error) {
	return svc.repo.QueryAllClasses()
}

// ListClasses returns class summaries, optionally sorted on "name" and/or "size".
// Unknown fields are ignored; without orderings the store order is kept.
func (svc *Service) ListClasses(orderings ...core.Ordering) ([]ClassSummary, error) {
	classes, err := svc.repo.QueryAllClasses()
	if err != nil {
		return nil, err
	}
	summaries := make([]ClassSummary, 0, len(classes))
	for _, cls := range classes {
		summaries = append(summaries, cls.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		for _, ord := range orderings {
			var cmp int
			switch ord.Field {
			case "name":
				cmp = strings.Compare(a.Name, b.Name)
			case "size":
				cmp = a.Size - b.Size
			}
			if cmp != 0 {
				return (cmp < 0) == ord.Ascending
			}
		}
		return false
	})
	return summaries, nil
}

func (svc *Service) GetClass(id string) (ClassData, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) Selection() Selection {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.selection
}

// CurrentClass returns the selected class.
func (svc *Service) CurrentClass() (ClassData, error) {
	sel := svc.Selection()
	if sel.ClassID == "" {
		return ClassData{}, ErrClassNotFound
	}
	return svc.repo.GetClassByID(sel.ClassID)
}

func (svc *Service) resolveDate(date string) (string, error) {
	if strings.TrimSpace(date) == "" {
		return svc.Selection().Date, nil
	}
	return ParseDate(date)
}

// findStudent returns the class and student indexes of `studentID`.
func findStudent(classes []ClassData, studentID string) (int, int, error) {
	for ci, cls := range classes {
		if si := cls.indexOf(studentID); si >= 0 {
			return ci, si, nil
		}
	}
	return -1, -1, ErrStudentNotFound
}

// GetStatus returns the student status on `date` (the selected date when empty); present by default.
func (svc *Service) GetStatus(studentID, date string) (Status, error) {
	date, err := svc.resolveDate(date)
	if err != nil {
		return "", err
	}
	classes, err := svc.repo.QueryAllClasses()
	if err != nil {
		return "", err
	}
	ci, si, err := findStudent(classes, studentID)
	if err != nil {
		return "", err
	}
	return classes[ci].Students[si].StatusOn(date), nil
}

// Counts aggregates the statuses of the selected class on `date` (the selected date when empty).
func (svc *Service) Counts(date string) (StatusCounts, error) {
	date, err := svc.resolveDate(date)
	if err != nil {
		return StatusCounts{}, err
	}
	cls, err := svc.CurrentClass()
	if err != nil {
		return StatusCounts{}, err
	}
	return CountStatuses(cls, date), nil
}

// Board returns the snapshot of the selected class on `date` (the selected date when empty).
func (svc *Service) Board(date string) (Board, error) {
	date, err := svc.resolveDate(date)
	if err != nil {
		return Board{}, err
	}
	sel := svc.Selection()
	cls, err := svc.CurrentClass()
	if err != nil {
		return Board{}, err
	}
	return NewBoard(cls, date, sel.Mode, svc.gridColumns), nil
}

// Commands

func (svc *Service) SelectClass(id string) error {
	svc.mu.Lock()
	if _, err := svc.repo.GetClassByID(id); err != nil {
		svc.mu.Unlock()
		return err
	}
	svc.selection.ClassID = id
	svc.mu.Unlock()

	svc.publish(Event{Type: EventSelectionChanged, ClassID: id})
	return nil
}

func (svc *Service) SelectDate(date string) error {
	date, err := ParseDate(date)
	if err != nil {
		return err
	}
	svc.mu.Lock()
	svc.selection.Date = date
	svc.mu.Unlock()

	svc.publish(Event{Type: EventSelectionChanged})
	return nil
}

func (svc *Service) SetViewMode(mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}
	svc.mu.Lock()
	svc.selection.Mode = mode
	svc.mu.Unlock()

	svc.publish(Event{Type: EventSelectionChanged})
	return nil
}

// SetStatus upserts the student record for `date` (the selected date when empty).
// Never produces two records for the same date.
func (svc *Service) SetStatus(studentID string, status Status, date string) (Student, error) {
	if !status.IsValid() {
		return Student{}, ErrInvalidStatus
	}
	return svc.updateStatus(studentID, date, func(Status) Status { return status })
}

// CycleStatus advances the student status on `date` to the next one of the cycle.
func (svc *Service) CycleStatus(studentID, date string) (Student, error) {
	return svc.updateStatus(studentID, date, Status.Next)
}

func (svc *Service) updateStatus(studentID, date string, next func(Status) Status) (Student, error) {
	date, err := svc.resolveDate(date)
	if err != nil {
		return Student{}, err
	}

	svc.mu.Lock()
	if svc.selection.Mode == ViewStudent {
		svc.mu.Unlock()
		return Student{}, ErrDisplayMode
	}
	var (
		updated Student
		classID string
	)
	err = svc.repo.UpdateClasses(func(classes []ClassData) ([]ClassData, error) {
		ci, si, err := findStudent(classes, studentID)
		if err != nil {
			return nil, err
		}
		st := &classes[ci].Students[si]
		st.setStatus(date, next(st.StatusOn(date)))
		updated, classID = st.clone(), classes[ci].ID
		return classes, nil
	})
	svc.mu.Unlock()
	if err != nil {
		return Student{}, err
	}

	svc.publish(Event{Type: EventStatusChanged, ClassID: classID, StudentID: studentID})
	return updated, nil
}

// ImportRoster parses pasted roster text and merges the resulting classes into the store.
// Nothing changes when no usable row was found (ErrEmptyInput).
func (svc *Service) ImportRoster(text string) (ImportResult, error) {
	if strings.TrimSpace(text) == "" {
		return ImportResult{}, ErrEmptyInput
	}
	return svc.ImportRows(Tokenize(text))
}

// ImportRows is ImportRoster for already split rows (e.g. spreadsheet cells).
func (svc *Service) ImportRows(rows []Row) (ImportResult, error) {
	cleaned := make([]Row, 0, len(rows))
	for _, row := range rows {
		if cells := CleanCells(row.Cells); len(cells) > 0 {
			cleaned = append(cleaned, Row{Line: row.Line, Cells: cells})
		}
	}
	result := AggregateRows(cleaned)
	if result.IsEmpty() {
		return result, ErrEmptyInput
	}
	if err := svc.MergeClasses(result.Classes); err != nil {
		return ImportResult{}, err
	}
	for _, dup := range result.Duplicates {
		svc.logger.Warn("duplicate seat number; later row kept", map[string]interface{}{
			"line": dup.Line, "class_id": dup.ClassID, "number": dup.Number, "replaced": dup.Replaced,
		})
	}
	return result, nil
}

// MergeClasses merges `classes` into the store (see MergeClasses) and selects the first one.
func (svc *Service) MergeClasses(classes []ClassData) error {
	return svc.putClasses(classes, false)
}

// ReplaceClasses replaces the whole store with `classes` and selects the first one.
func (svc *Service) ReplaceClasses(classes []ClassData) error {
	return svc.putClasses(classes, true)
}

func (svc *Service) putClasses(classes []ClassData, replace bool) error {
	if len(classes) == 0 {
		return ErrEmptyInput
	}
	incoming := CloneClasses(classes)

	var overwritten []ClassData
	svc.mu.Lock()
	err := svc.repo.UpdateClasses(func(existing []ClassData) ([]ClassData, error) {
		for _, cls := range existing {
			for _, inc := range incoming {
				if cls.ID == inc.ID {
					overwritten = append(overwritten, cls)
				}
			}
		}
		if replace {
			return incoming, nil
		}
		return MergeClasses(existing, incoming), nil
	})
	if err == nil {
		svc.selection.ClassID = incoming[0].ID
	}
	svc.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "storing classes")
	}

	for _, before := range overwritten {
		for _, after := range incoming {
			if after.ID != before.ID {
				continue
			}
			if diff, err := RosterDiff(before, after); err == nil && diff != "" {
				svc.logger.Info("roster overwritten by import", map[string]interface{}{"class_id": after.ID, "diff": diff})
			}
		}
	}
	svc.publish(Event{Type: EventClassesImported, ClassID: incoming[0].ID})
	return nil
}

// DeleteClass removes the class with all its students and records.
// When it was selected, the selection falls back to the first remaining class (or none).
func (svc *Service) DeleteClass(id string) error {
	svc.mu.Lock()
	var next string
	err := svc.repo.UpdateClasses(func(classes []ClassData) ([]ClassData, error) {
		remaining := make([]ClassData, 0, len(classes))
		for _, cls := range classes {
			if cls.ID != id {
				remaining = append(remaining, cls)
			}
		}
		if len(remaining) == len(classes) {
			return nil, ErrClassNotFound
		}
		if len(remaining) > 0 {
			next = remaining[0].ID
		}
		return remaining, nil
	})
	if err == nil && svc.selection.ClassID == id {
		svc.selection.ClassID = next
	}
	svc.mu.Unlock()
	if err != nil {
		return err
	}

	svc.publish(Event{Type: EventClassDeleted, ClassID: id})
	return nil
}

// ReorderSeats re-sequences the class students from a pasted grid of seat numbers.
// Nothing changes when the text holds no seat number (ErrEmptyInput).
func (svc *Service) ReorderSeats(classID, text string) (ClassData, error) {
	numbers := ParseSeatNumbers(text)
	if len(numbers) == 0 {
		return ClassData{}, ErrEmptyInput
	}

	var reordered ClassData
	svc.mu.Lock()
	err := svc.repo.UpdateClasses(func(classes []ClassData) ([]ClassData, error) {
		for i, cls := range classes {
			if cls.ID == classID {
				classes[i] = ReorderStudents(cls, numbers)
				reordered = classes[i].Clone()
				return classes, nil
			}
		}
		return nil, ErrClassNotFound
	})
	svc.mu.Unlock()
	if err != nil {
		return ClassData{}, err
	}

	svc.publish(Event{Type: EventSeatsReordered, ClassID: classID})
	return reordered, nil
}

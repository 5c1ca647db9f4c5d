package testutil

import (
	"fmt"
	"strings"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
	logsvc "github.com/trezcool/shusseki/services/logger"
	inmemdb "github.com/trezcool/shusseki/storage/database/inmem"
)

// Config returns the configuration used by tests: no seeding, no rollover, no request logs.
func Config() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Shusseki",
		Locale:   "en",
		Server:   core.ServerConfig{DisableReqLogs: true},
		Log:      core.LogConfig{Name: "test", Level: "error", Format: "console"},
		Board:    core.BoardConfig{GridColumns: attendance.DefaultGridColumns},
	}
}

// NewService returns a board service over a fresh in-memory DB holding `classes`.
func NewService(t *testing.T, classes ...attendance.ClassData) (*attendance.Service, attendance.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}
	repo := inmemdb.NewClassRepository(db)
	if len(classes) > 0 {
		err = repo.UpdateClasses(func([]attendance.ClassData) ([]attendance.ClassData, error) {
			return attendance.CloneClasses(classes), nil
		})
		if err != nil {
			t.Fatalf("NewService() failed: %v", err)
		}
	}
	return attendance.NewService(repo, logsvc.NewNopLogger(), attendance.DefaultGridColumns), repo
}

// NewValidator returns a validator with every custom tag registered for `locale`.
func NewValidator(locale string) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator(locale)
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	return validate, translator
}

// MakeClass builds a class whose students are numbered `numbers`, named "Student {n}".
func MakeClass(id, name string, numbers ...int) attendance.ClassData {
	cls := attendance.ClassData{ID: id, Name: name, Students: make([]attendance.Student, 0, len(numbers))}
	for _, n := range numbers {
		cls.Students = append(cls.Students, attendance.Student{
			ID:      attendance.StudentID(id, n),
			Number:  n,
			Name:    fmt.Sprintf("Student %d", n),
			Records: make([]attendance.AttendanceRecord, 0),
		})
	}
	return cls
}

// RosterText joins `rows` the way a spreadsheet copy does (tab separated, one row per line).
func RosterText(rows ...[]string) string {
	lines := make([]string, len(rows))
	for i, cells := range rows {
		lines[i] = strings.Join(cells, "\t")
	}
	return strings.Join(lines, "\n")
}

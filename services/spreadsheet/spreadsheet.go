// Package spreadsheet reads rosters from and writes attendance sheets to .xlsx workbooks.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shusseki/core/attendance"
)

const (
	maxSheetNameLen = 31

	headerNumber = "番号"
	headerName   = "氏名"
)

var ErrNoSheet = errors.New("workbook has no sheet")

// ReadRoster returns the non-blank rows of the first sheet, as if pasted.
func ReadRoster(r io.Reader) ([]attendance.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheets[0])
	}

	rows := make([]attendance.Row, 0, len(cells))
	for i, row := range cells {
		if cleaned := attendance.CleanCells(row); len(cleaned) > 0 {
			rows = append(rows, attendance.Row{Line: i + 1, Cells: cleaned})
		}
	}
	return rows, nil
}

// ExportAttendance writes one row per student (display order) and one column per date,
// cells holding the status labels, followed by per-status totals.
// Returns the workbook and a suggested file name.
func ExportAttendance(cls attendance.ClassData, dates []string) (*bytes.Buffer, string, error) {
	return export(cls, dates, func(st attendance.Student, date string) string {
		return st.StatusOn(date).Label()
	})
}

// ExportBlankSheet writes the same layout with empty status cells, to be filled by hand.
func ExportBlankSheet(cls attendance.ClassData, dates []string) (*bytes.Buffer, string, error) {
	return export(cls, dates, nil)
}

func export(cls attendance.ClassData, dates []string, cellValue func(attendance.Student, string) string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(cls.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", errors.Wrap(err, "naming sheet")
	}

	header := []interface{}{headerNumber, headerName}
	for _, date := range dates {
		header = append(header, date)
	}
	totals := attendance.Statuses[1:] // everything but present
	if cellValue != nil {
		for _, status := range totals {
			header = append(header, status.Label())
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", errors.Wrap(err, "writing header")
	}

	for i, st := range cls.Students {
		row := []interface{}{st.Number, st.Name}
		counts := make(map[attendance.Status]int, len(totals))
		for _, date := range dates {
			if cellValue == nil {
				row = append(row, "")
				continue
			}
			row = append(row, cellValue(st, date))
			counts[st.StatusOn(date)]++
		}
		if cellValue != nil {
			for _, status := range totals {
				row = append(row, counts[status])
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", errors.Wrap(err, "computing cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", errors.Wrapf(err, "writing student %s", st.ID)
		}
	}

	if err := styleHeader(f, sheet, len(header)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", errors.Wrap(err, "writing workbook")
	}
	return buf, fileName(cls, dates), nil
}

func styleHeader(f *excelize.File, sheet string, width int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return errors.Wrap(err, "computing cell name")
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return errors.Wrap(err, "styling header")
	}
	return f.SetColWidth(sheet, "B", "B", 18)
}

// sheetName drops the characters Excel rejects and truncates to its length limit.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	if runes := []rune(name); len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}

func fileName(cls attendance.ClassData, dates []string) string {
	switch len(dates) {
	case 0:
		return cls.ID + ".xlsx"
	case 1:
		return fmt.Sprintf("%s_%s.xlsx", cls.ID, dates[0])
	default:
		return fmt.Sprintf("%s_%s_%s.xlsx", cls.ID, dates[0], dates[len(dates)-1])
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/trezcool/shusseki/core/attendance"
	"github.com/trezcool/shusseki/services/spreadsheet"
)

func (cli *commandLine) export(path, classID string, dates []string, out string) error {
	for i, date := range dates {
		var err error
		if dates[i], err = attendance.ParseDate(date); err != nil {
			return fmt.Errorf("%q: %w", date, err)
		}
	}

	cls, err := cli.findClass(path, classID)
	if err != nil {
		return err
	}
	buf, name, err := spreadsheet.ExportBlankSheet(cls, dates)
	if err != nil {
		return err
	}
	if out == "" {
		out = name
	}
	if err = os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "%s written\n", out)
	return nil
}

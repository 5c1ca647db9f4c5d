package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/shusseki/core/attendance"
	"github.com/trezcool/shusseki/services/spreadsheet"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	stdin   io.Reader
	stdout  io.Writer
	fd      int // of stdin
	command string
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stdout, "Usage:")
	fmt.Fprintln(cli.stdout, "  preview [-file ROSTER] - parse a roster (.txt/.csv/.tsv/.xlsx, or piped text) and print its classes")
	fmt.Fprintln(cli.stdout, "  seating -file ROSTER -class CLASS_ID [-order \"3 1 2\"] - preview a seating reorder (order read from stdin by default)")
	fmt.Fprintln(cli.stdout, "  export -file ROSTER -class CLASS_ID -date yyyy-MM-dd[,yyyy-MM-dd...] [-out PATH] - write a blank attendance sheet")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cli.command = args[1]

	previewCmd := flag.NewFlagSet("preview", flag.ContinueOnError)
	previewFile := previewCmd.String("file", "", "The roster file. Piped text is read when empty.")

	seatingCmd := flag.NewFlagSet("seating", flag.ContinueOnError)
	seatingFile := seatingCmd.String("file", "", "The roster file.")
	seatingClass := seatingCmd.String("class", "", "The class id, e.g. class-1-A.")
	seatingOrder := seatingCmd.String("order", "", "The seat numbers in display order. Piped text is read when empty.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportFile := exportCmd.String("file", "", "The roster file.")
	exportClass := exportCmd.String("class", "", "The class id, e.g. class-1-A.")
	exportDates := exportCmd.String("date", "", "Comma separated dates (yyyy-MM-dd).")
	exportOut := exportCmd.String("out", "", "The output file. Defaults to a name derived from the class and dates.")

	for _, fs := range []*flag.FlagSet{previewCmd, seatingCmd, exportCmd} {
		fs.SetOutput(cli.stdout)
	}

	switch args[1] {
	case "preview":
		if err := previewCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		result, err := cli.readRoster(*previewFile)
		if err == errHelp {
			previewCmd.Usage()
		}
		if err != nil {
			return err
		}
		cli.printResult(result)
		return nil

	case "seating":
		if err := seatingCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *seatingFile == "" || *seatingClass == "" {
			seatingCmd.Usage()
			return errHelp
		}
		order := *seatingOrder
		if order == "" {
			text, err := cli.readStdin()
			if err == errHelp {
				seatingCmd.Usage()
			}
			if err != nil {
				return err
			}
			order = text
		}
		return cli.seating(*seatingFile, *seatingClass, order)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportFile == "" || *exportClass == "" || *exportDates == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportFile, *exportClass, strings.Split(*exportDates, ","), *exportOut)

	default:
		cli.printUsage()
		return errHelp
	}
}

// readStdin reads piped text; an interactive terminal means nothing was piped.
func (cli *commandLine) readStdin() (string, error) {
	if isTerminalFunc(cli.fd) {
		return "", errHelp
	}
	data, err := io.ReadAll(cli.stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readRoster parses the roster `path` (stdin when empty); .xlsx files are read as workbooks.
func (cli *commandLine) readRoster(path string) (attendance.ImportResult, error) {
	if path == "" {
		text, err := cli.readStdin()
		if err != nil {
			return attendance.ImportResult{}, err
		}
		return attendance.ParseRoster(text), nil
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Open(path)
		if err != nil {
			return attendance.ImportResult{}, err
		}
		defer func() { _ = f.Close() }()

		rows, err := spreadsheet.ReadRoster(f)
		if err != nil {
			return attendance.ImportResult{}, err
		}
		return attendance.AggregateRows(rows), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return attendance.ImportResult{}, err
	}
	return attendance.ParseRoster(string(data)), nil
}

func (cli *commandLine) findClass(path, classID string) (attendance.ClassData, error) {
	result, err := cli.readRoster(path)
	if err != nil {
		return attendance.ClassData{}, err
	}
	for _, cls := range result.Classes {
		if cls.ID == classID {
			return cls, nil
		}
	}
	return attendance.ClassData{}, attendance.ErrClassNotFound
}

func (cli *commandLine) printResult(result attendance.ImportResult) {
	for _, cls := range result.Classes {
		cli.printClass(cls)
	}
	fmt.Fprintf(cli.stdout, "%d students imported, %d rows skipped\n", result.Imported, len(result.Skipped))
	for _, row := range result.Skipped {
		fmt.Fprintf(cli.stdout, "  skipped line %d %q: %s\n", row.Line, row.Cells, row.Reason)
	}
	for _, dup := range result.Duplicates {
		fmt.Fprintf(cli.stdout, "  line %d: seat %d of %s given twice, %q replaced\n", dup.Line, dup.Number, dup.ClassID, dup.Replaced)
	}
}

func (cli *commandLine) printClass(cls attendance.ClassData) {
	fmt.Fprintf(cli.stdout, "%s (%s): %d students\n", cls.Name, cls.ID, len(cls.Students))
	for _, st := range cls.Students {
		fmt.Fprintf(cli.stdout, "  %d\t%s\n", st.Number, st.Name)
	}
}

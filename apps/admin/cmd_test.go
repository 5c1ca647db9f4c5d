package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shusseki/core/attendance"
	"github.com/trezcool/shusseki/tests"
)

const roster = "1\tA\t2\t鈴木 花子\n" +
	"1\tA\t1\t田中 太郎\n" +
	"1\tA\t3\t佐藤 次郎\n" +
	"メモ\n"

func setup(t *testing.T, stdin string) (*commandLine, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandLine{stdin: strings.NewReader(stdin), stdout: &out}, &out
}

func writeRoster(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "roster.tsv")
	require.NoError(t, os.WriteFile(path, []byte(roster), 0o644))
	return path
}

func mockTerminal(t *testing.T, isTerminal bool) {
	orig := isTerminalFunc
	isTerminalFunc = func(int) bool { return isTerminal }
	t.Cleanup(func() { isTerminalFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	stdin      string
	terminal   bool
	wantErr    error
	wantErrStr string
	wantAnyErr bool
	wantOut    []string
}

func runCLITests(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			mockTerminal(t, tt.terminal)
			cli, out := setup(t, tt.stdin)

			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantAnyErr:
				if err == nil {
					t.Error("cli.run() error = nil, want an error")
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"preview", "seating", "export"}},
		{name: "unknown flag", args: []string{"preview", "-lol"}, wantErr: errHelp},
	})
}

func Test_commandLine_preview(t *testing.T) {
	path := writeRoster(t)

	runCLITests(t, []cliTest{
		{name: "nothing piped", args: []string{"preview"}, terminal: true, wantErr: errHelp},
		{
			name: "from file", args: []string{"preview", "-file", path},
			wantOut: []string{"1年A組 (class-1-A): 3 students", "  1\t田中 太郎\n  2\t鈴木 花子\n  3\t佐藤 次郎\n", "3 students imported, 1 rows skipped", `skipped line 4 ["メモ"]`},
		},
		{
			name: "from stdin", args: []string{"preview"}, stdin: "B\t1\t山田\nB\t1\t伊藤\n",
			wantOut: []string{"B組 (class-B): 1 students", `seat 1 of class-B given twice, "山田" replaced`},
		},
		{name: "missing file", args: []string{"preview", "-file", filepath.Join(t.TempDir(), "nope.txt")}, wantAnyErr: true},
	})
}

func Test_commandLine_previewXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{2, "B", 7, "佐藤", "次郎"}))
	require.NoError(t, f.SaveAs(path))
	_ = f.Close()

	runCLITests(t, []cliTest{
		{name: "xlsx", args: []string{"preview", "-file", path}, wantOut: []string{"2年B組 (class-2-B): 1 students", "  7\t佐藤 次郎"}},
	})
}

func Test_commandLine_seating(t *testing.T) {
	path := writeRoster(t)

	runCLITests(t, []cliTest{
		{name: "no args", args: []string{"seating"}, wantErr: errHelp},
		{name: "no order", args: []string{"seating", "-file", path, "-class", "class-1-A"}, terminal: true, wantErr: errHelp},
		{name: "unknown class", args: []string{"seating", "-file", path, "-class", "class-9-Z", "-order", "1"}, wantErr: attendance.ErrClassNotFound},
		{name: "no seat number", args: []string{"seating", "-file", path, "-class", "class-1-A", "-order", "教卓"}, wantErr: attendance.ErrEmptyInput},
		{
			name: "order flag", args: []string{"seating", "-file", path, "-class", "class-1-A", "-order", "3 1"},
			wantOut: []string{"  3\t佐藤 次郎\n  1\t田中 太郎\n  2\t鈴木 花子\n"},
		},
		{
			name: "order piped", args: []string{"seating", "-file", path, "-class", "class-1-A"}, stdin: "２\t３\n１",
			wantOut: []string{"  2\t鈴木 花子\n  3\t佐藤 次郎\n  1\t田中 太郎\n"},
		},
	})
}

func Test_commandLine_export(t *testing.T) {
	path := writeRoster(t)
	out := filepath.Join(t.TempDir(), "sheet.xlsx")

	runCLITests(t, []cliTest{
		{name: "no args", args: []string{"export", "-file", path}, wantErr: errHelp},
		{
			name: "invalid date", args: []string{"export", "-file", path, "-class", "class-1-A", "-date", "2024-04-31"},
			wantErrStr: `"2024-04-31": ` + attendance.ErrInvalidDate.Error(),
		},
		{
			name: "exported", args: []string{"export", "-file", path, "-class", "class-1-A", "-date", "2024-04-08,2024-04-09", "-out", out},
			wantOut: []string{out + " written"},
		},
	})

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("1年A組")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"番号", "氏名", "2024-04-08", "2024-04-09"}, rows[0])
	assert.Equal(t, "田中 太郎", rows[1][1])
}

func Test_commandLine_readRoster_matchesImport(t *testing.T) {
	svc, _ := testutil.NewService(t)
	want, err := svc.ImportRoster(roster)
	require.NoError(t, err)

	cli, _ := setup(t, roster)
	mockTerminal(t, false)
	got, err := cli.readRoster("")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

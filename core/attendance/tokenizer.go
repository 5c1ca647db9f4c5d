package attendance

import "strings"

// Row is one non-blank line of pasted roster text, split into cells.
type Row struct {
	Line  int      `json:"line"` // 1-based line number in the input
	Cells []string `json:"cells"`
}

// Tokenize splits raw pasted text into rows of non-empty cells, one per non-blank line.
// Validation is left to the record builder.
func Tokenize(text string) []Row {
	var rows []Row
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Cells: SplitLine(line)})
	}
	return rows
}

// SplitLine tries each delimiter in priority order: tab, comma, then runs of whitespace.
// The first one yielding at least 2 cells wins.
func SplitLine(line string) []string {
	cells := CleanCells(strings.Split(line, "\t"))
	if len(cells) >= 2 {
		return cells
	}
	if strings.Contains(line, ",") {
		if cells = CleanCells(strings.Split(line, ",")); len(cells) >= 2 {
			return cells
		}
	}
	return CleanCells(strings.Fields(line))
}

// CleanCells trims every cell and drops the empty ones.
// Positions shift when an interior cell is blank.
func CleanCells(cells []string) []string {
	cleaned := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell = strings.TrimSpace(cell); cell != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

package tabular

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is a parsed worksheet: one header row plus data rows, all cells as
// strings. Column lookups go through the normalizer so callers use canonical
// names regardless of which alias the source file carried.
type Table struct {
	Headers []string
	Rows    [][]string

	colIndex map[string]int
}

// NewTable builds a Table from raw rows, taking row headerRow as the header.
// Rows above the header are discarded.
func NewTable(raw [][]string, headerRow int) *Table {
	t := &Table{}
	if headerRow < 0 || headerRow >= len(raw) {
		return t
	}
	for _, h := range raw[headerRow] {
		t.Headers = append(t.Headers, strings.TrimSpace(h))
	}
	t.Rows = raw[headerRow+1:]
	t.colIndex = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, seen := t.colIndex[h]; !seen {
			t.colIndex[h] = i
		}
	}
	return t
}

// Col returns the index of the column whose header matches the canonical key
// or any of its aliases. Second return is false when absent.
func (t *Table) Col(canonical string) (int, bool) {
	for _, name := range aliasesFor(canonical) {
		if idx, ok := t.colIndex[name]; ok {
			return idx, true
		}
		// header files are hand-edited; tolerate case drift
		for h, idx := range t.colIndex {
			if strings.EqualFold(h, name) {
				return idx, true
			}
		}
	}
	return 0, false
}

// ColContaining finds the first column whose header contains every given
// fragment, case-insensitively. Used for loosely named date columns.
func (t *Table) ColContaining(fragments ...string) (int, bool) {
	for i, h := range t.Headers {
		lower := strings.ToLower(h)
		all := true
		for _, frag := range fragments {
			if !strings.Contains(lower, strings.ToLower(frag)) {
				all = false
				break
			}
		}
		if all {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the trimmed cell at (row, col), empty string when the row is
// ragged and col is past its end.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// SetCell writes a cell in place, growing the row when it is ragged.
func (t *Table) SetCell(row, col int, val string) {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return
	}
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = val
}

// Decimal coerces a cell to decimal, 0 on failure. Thousands separators and
// surrounding whitespace are stripped first.
func (t *Table) Decimal(row, col int) decimal.Decimal {
	return CoerceDecimal(t.Cell(row, col))
}

// CoerceDecimal parses s as a decimal quantity, returning zero when s is not
// numeric. Source files mix "1,234.5", "1234,5" and plain numbers.
func CoerceDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Count(s, ",") == 1 {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"02.01.2006",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"01/02/06",
	"20060102",
}

// CoerceDate parses a cell as a date, trying the layouts the source files
// are known to use. Returns the zero time when nothing matches.
func CoerceDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

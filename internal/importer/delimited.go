package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names expected in the header row. Matching is exact and case-sensitive.
const (
	ColumnDate        = "date"
	ColumnDescription = "description"
	ColumnAmount      = "amount"
)

const utf8BOM = "\ufeff"

// Record is one candidate row before validation. Fields missing from the
// row or from the header are empty strings.
type Record struct {
	Row         int // file line the row starts on, header = 1
	Date        string
	Description string
	Amount      string
}

// DelimitedParser reads a header-led delimited file whose columns are
// located by name, in any order.
type DelimitedParser struct {
	name  string
	comma rune
}

// NewDelimitedParser creates a parser registered under name, splitting on comma.
func NewDelimitedParser(name string, comma rune) *DelimitedParser {
	return &DelimitedParser{name: name, comma: comma}
}

// Format returns the parser name.
func (p *DelimitedParser) Format() string { return p.name }

// Parse reads every row after the header into a Record. Record.Row is the
// file line the row starts on, so blank lines and multi-line quoted fields
// are counted.
func (p *DelimitedParser) Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", p.name, err)
	}
	cols := headerIndex(header)

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s file: %w", p.name, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, Record{
			Row:         line,
			Date:        strings.TrimSpace(field(row, cols, ColumnDate)),
			Description: field(row, cols, ColumnDescription),
			Amount:      strings.TrimSpace(field(row, cols, ColumnAmount)),
		})
	}
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

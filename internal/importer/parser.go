// Package importer parses CSV statement exports into transaction create
// params. The column layout is discovered from a header row, so files with
// preamble lines, reordered columns, or trailing footers still parse.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "fintrack/internal/encoding"
	"fintrack/internal/transaction"
)

const (
	colDate     = "date"
	colDesc     = "description"
	colAmount   = "amount"
	colCategory = "category"
)

// dateLayouts are tried in order for each row.
var dateLayouts = []string{time.DateOnly, "02/01/2006", "02-01-2006"}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a CSV statement and returns create params for every row it can
// understand. Rows with an unparseable date or amount are skipped rather than
// failing the whole file; footers and running-balance lines are common in
// bank exports.
func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx := findHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("no header row found: need at least %q and %q columns", colDate, colAmount)
	}

	var params []transaction.CreateParams

	for _, row := range rows[headerIdx+1:] {
		rowParams, ok := parseRow(cols, row)
		if !ok {
			continue
		}

		params = append(params, rowParams)
	}

	return params, nil
}

// colIndex maps lower-cased column names to their position in the row.
type colIndex map[string]int

// findHeader scans for the first row carrying at least the date and amount
// columns, case-insensitively.
func findHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		_, hasDate := cols[colDate]

		_, hasAmount := cols[colAmount]
		if hasDate && hasAmount {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func parseRow(cols colIndex, row []string) (transaction.CreateParams, bool) {
	date, ok := cellTime(cols, row, colDate)
	if !ok {
		return transaction.CreateParams{}, false
	}

	amountStr, ok := cell(cols, row, colAmount)
	if !ok {
		return transaction.CreateParams{}, false
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return transaction.CreateParams{}, false
	}

	desc, _ := cell(cols, row, colDesc)
	category, _ := cell(cols, row, colCategory)

	return transaction.CreateParams{
		Description: desc,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}, true
}

func cell(cols colIndex, row []string, name string) (string, bool) {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return "", false
	}

	v := strings.TrimSpace(row[idx])

	return v, v != ""
}

func cellTime(cols colIndex, row []string, name string) (time.Time, bool) {
	v, ok := cell(cols, row, name)
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

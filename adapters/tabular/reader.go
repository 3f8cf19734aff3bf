// Package tabular reads Excel and CSV files into DataFields with per-column
// kind inference, so schema-less spreadsheets can feed the engine directly.
package tabular

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fieldcast/domain/field"
	"fieldcast/internal/errors"
)

// kindThreshold is the parse-ratio a column must reach before it is tagged
// with a non-text kind.
const kindThreshold = 0.8

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// Reader loads one tabular file (xlsx or csv, by extension).
type Reader struct {
	filePath string
	fileType string
}

func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// ReadFields reads the file and returns one DataField per column, in header
// order. The first row is treated as the header.
func (r *Reader) ReadFields() ([]field.DataField, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IngestError("file not found: "+r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.IngestError("file must have a header row and at least one data row", nil)
	}

	return columnsToFields(rows), nil
}

func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.IngestError("failed to read first sheet", err)
	}
	return rows, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.IngestError("failed to read CSV file", err)
	}
	return rows, nil
}

// columnsToFields infers each column's kind from parse ratios over its cells
// and converts values accordingly. Unparseable numeric cells become NaN so
// downstream filtering can report them; other kinds keep raw strings for
// unparseable cells.
func columnsToFields(rows [][]string) []field.DataField {
	headers := rows[0]
	fields := make([]field.DataField, 0, len(headers))

	for col, header := range headers {
		cells := make([]string, 0, len(rows)-1)
		for i := 1; i < len(rows); i++ {
			cell := ""
			if col < len(rows[i]) {
				cell = strings.TrimSpace(rows[i][col])
			}
			cells = append(cells, cell)
		}

		kind := inferKind(cells)
		fields = append(fields, field.DataField{
			Name:   strings.TrimSpace(header),
			Kind:   kind,
			Values: convertCells(cells, kind),
		})
	}
	return fields
}

func inferKind(cells []string) field.Kind {
	numeric, boolean, date, nonEmpty := 0, 0, 0, 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			numeric++
			continue
		}
		if _, err := strconv.ParseBool(strings.ToLower(cell)); err == nil {
			boolean++
			continue
		}
		if parseDate(cell) != nil {
			date++
		}
	}
	if nonEmpty == 0 {
		return field.KindText
	}

	total := float64(nonEmpty)
	switch {
	case float64(numeric)/total >= kindThreshold:
		return field.KindNumber
	case float64(numeric+boolean)/total >= kindThreshold && boolean > 0:
		return field.KindBoolean
	case float64(date)/total >= kindThreshold:
		return field.KindDate
	default:
		return field.KindText
	}
}

func convertCells(cells []string, kind field.Kind) []interface{} {
	values := make([]interface{}, 0, len(cells))
	for _, cell := range cells {
		switch kind {
		case field.KindNumber:
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				values = append(values, v)
			} else {
				values = append(values, math.NaN())
			}
		case field.KindBoolean:
			if v, err := strconv.ParseBool(strings.ToLower(cell)); err == nil {
				values = append(values, v)
			} else {
				values = append(values, cell)
			}
		case field.KindDate:
			if t := parseDate(cell); t != nil {
				values = append(values, *t)
			} else {
				values = append(values, cell)
			}
		default:
			values = append(values, cell)
		}
	}
	return values
}

func parseDate(cell string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return &t
		}
	}
	return nil
}

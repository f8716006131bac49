package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"master-data-service/models"
)

// ExtractRows parses an uploaded workbook (CSV or Excel) into normalized
// master rows. The first row is the header row; every required column must
// be present after header normalization.
func ExtractRows(data []byte, filename string, brand models.Brand) ([]models.Row, error) {
	var table [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		table, err = readCSV(data)
	default:
		table, err = readWorkbook(data)
	}
	if err != nil {
		return nil, err
	}
	if len(table) < 2 {
		return nil, fmt.Errorf("no data rows found")
	}

	index, err := headerIndex(table[0])
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0, len(table)-1)
	for _, record := range table[1:] {
		row := buildRow(record, index, brand)
		if row[models.HeaderItemSKU] == nil || row[models.HeaderVariationSKU] == nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return table, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	table, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	return table, nil
}

// normalizeHeader canonicalizes one header cell: BOM stripped, trimmed,
// uppercased, with the legacy "BEFORE VAT" spelling mapped to CBV.
func normalizeHeader(raw string) string {
	h := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF")))
	if h == "BEFORE VAT" {
		h = string(models.HeaderCBV)
	}
	return h
}

// headerIndex maps each required header to its column position. Duplicate
// headers resolve last-wins. Every missing column is reported in one error.
func headerIndex(headerRow []string) (map[models.Header]int, error) {
	index := make(map[models.Header]int, len(models.RequiredHeaders))
	for i, raw := range headerRow {
		h := normalizeHeader(raw)
		if models.IsRequiredHeader(h) {
			index[models.Header(h)] = i
		}
	}

	var missing []string
	for _, h := range models.RequiredHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, string(h))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func buildRow(record []string, index map[models.Header]int, brand models.Brand) models.Row {
	row := make(models.Row, len(models.RequiredHeaders))
	for _, h := range models.RequiredHeaders {
		i := index[h]
		if i >= len(record) {
			row[h] = nil
			continue
		}
		row[h] = models.NormalizeValue(record[i])
	}

	// Blank BRAND cells inherit the brand encoded in the filename.
	if row[models.HeaderBrand] == nil {
		b := string(brand)
		row[models.HeaderBrand] = &b
	}

	for _, h := range models.NumericHeaders {
		if v := row[h]; v != nil {
			stripped := strings.ReplaceAll(*v, ",", "")
			row[h] = &stripped
		}
	}
	return row
}

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"freezone-advisor/internal/models"
)

// ReadCSV parses the catalog spreadsheet export into raw records keyed by
// column header. Rows shorter than the header are padded with empty cells.
func ReadCSV(path string) ([]models.RawCatalogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads raw catalog records from any CSV stream.
func ParseCSV(r io.Reader) ([]models.RawCatalogRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var records []models.RawCatalogRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		rec := make(models.RawCatalogRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"schoolfinder/internal/schools"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteCSV writes a header row followed by one row per school, in order,
// as UTF-8 with a byte order mark so spreadsheet tools detect the encoding.
// An empty list produces a header-only file.
func WriteCSV(path string, list []schools.School) (err error) {
	dir := filepath.Dir(path)
	if dir != "." {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	err = EncodeCSV(file, list)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// EncodeCSV is WriteCSV without the file.
func EncodeCSV(w io.Writer, list []schools.School) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(bom)

	err := writer.Write(schools.Columns())
	if err != nil {
		return err
	}
	for _, school := range list {
		err = writer.Write(school.Row())
		if err != nil {
			return err
		}
	}

	writer.Flush()
	err = writer.Error()
	if err != nil {
		return err
	}
	return bom.Close()
}

// ReadCSV reads a file written by WriteCSV. The byte order mark is optional.
func ReadCSV(path string) ([]schools.School, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = len(schools.FieldMap)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	for i, column := range schools.Columns() {
		if header[i] != column {
			return nil, fmt.Errorf("read csv: unexpected column %q, expected %q", header[i], column)
		}
	}

	var result []schools.School
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		result = append(result, schools.FromRow(row))
	}
	return result, nil
}

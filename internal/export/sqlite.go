package export

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"schoolfinder/internal/schools"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// OpenDB opens (or creates) the sqlite database at `path` and applies Schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var insertSchool = fmt.Sprintf(
	"insert into schools(position, %s) values (?%s)",
	strings.Join(schools.Columns(), ", "),
	strings.Repeat(", ?", len(schools.FieldMap)),
)

// WriteSQLite replaces the contents of the schools table at `path` with
// `list` in a single transaction.
func WriteSQLite(ctx context.Context, path string, list []schools.School) (err error) {
	db, err := OpenDB(path)
	if err != nil {
		return fmt.Errorf("export sqlite: %w", err)
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	err = StoreSchools(ctx, db, list)
	if err != nil {
		return fmt.Errorf("export sqlite: %w", err)
	}
	return nil
}

func StoreSchools(ctx context.Context, db *sql.DB, list []schools.School) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from schools")
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertSchool)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, school := range list {
		args := []any{i}
		for _, value := range school.Row() {
			args = append(args, value)
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("insert %q: %w", school.Name, err)
		}
	}

	return tx.Commit()
}

// LoadSchools returns the stored schools in insertion order.
func LoadSchools(ctx context.Context, db *sql.DB) ([]schools.School, error) {
	rows, err := db.QueryContext(
		ctx,
		fmt.Sprintf("select %s from schools order by position", strings.Join(schools.Columns(), ", ")),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schools.School
	for rows.Next() {
		row := make([]string, len(schools.FieldMap))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		result = append(result, schools.FromRow(row))
	}
	return result, rows.Err()
}

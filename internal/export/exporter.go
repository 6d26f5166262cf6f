package export

import (
	"context"
	"schoolfinder/internal/schools"
)

type CSVExporter struct {
	Path string
}

func (e CSVExporter) Name() string {
	return e.Path
}

func (e CSVExporter) Export(_ context.Context, list []schools.School) error {
	return WriteCSV(e.Path, list)
}

type SQLiteExporter struct {
	Path string
}

func (e SQLiteExporter) Name() string {
	return e.Path
}

func (e SQLiteExporter) Export(ctx context.Context, list []schools.School) error {
	return WriteSQLite(ctx, e.Path, list)
}

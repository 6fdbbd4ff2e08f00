// Package export serializes filtered query results to CSV or zipped
// shapefile downloads, and prunes old download files as a side effect of
// each export call.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"droscher.com/BreweryFinder/pkg/model"
)

// ErrNothingToExport signals an empty or unsupported result set.
var ErrNothingToExport = errors.New("nothing to export")

const cleanupAge = 30 * time.Minute

type Exporter struct {
	DownloadDir string
	Logger      *zap.Logger
}

func NewExporter(downloadDir string, logger *zap.Logger) *Exporter {
	return &Exporter{DownloadDir: downloadDir, Logger: logger}
}

// Export writes rows to a download file and returns its path. Shapefile
// output is only supported for the breweries table; everything else goes to
// CSV. Old download files are cleaned up first, best-effort.
func (e *Exporter) Export(entity *model.Entity, rows []map[string]any, fields []string, format string) (string, error) {
	if err := e.RemoveOldFiles(e.DownloadDir, Options{MaxAge: cleanupAge}); err != nil {
		e.Logger.Warn("download cleanup failed", zap.Error(err))
	}

	if err := os.MkdirAll(e.DownloadDir, 0o755); err != nil {
		return "", err
	}

	if format == "shapefile" && entity.Name == "breweries" {
		return e.exportShapefile(entity, rows, fields)
	}

	return e.exportCSV(entity, rows, fields)
}

// exportCSV writes a header row followed by one row per record, field order
// equal to the requested field list.
func (e *Exporter) exportCSV(entity *model.Entity, rows []map[string]any, fields []string) (string, error) {
	path := filepath.Join(e.DownloadDir, timestampName(entity.Table)+".csv")

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(fields); err != nil {
		return "", err
	}

	record := make([]string, len(fields))

	for _, row := range rows {
		for i, field := range fields {
			record[i] = formatValue(row[field])
		}

		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()

	return path, writer.Error()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%g", v)
	case float32:
		return fmt.Sprintf("%g", v)
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func timestampName(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102150405")
}

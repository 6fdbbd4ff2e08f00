package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	shp "github.com/jonas-p/go-shp"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/pkg/model"
)

// WGS84 is the projection definition written alongside every shapefile.
const WGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

type shapeField struct {
	kind byte
	size uint8
}

// shapeSchema is the fixed attribute type map for brewery exports. Fields
// outside this map, or absent from the first result, are dropped from the
// output schema rather than erroring.
var shapeSchema = map[string]shapeField{
	"id":        {kind: 'N', size: 10},
	"name":      {kind: 'C', size: 100},
	"address":   {kind: 'C', size: 100},
	"city":      {kind: 'C', size: 50},
	"state":     {kind: 'C', size: 2},
	"zip":       {kind: 'C', size: 11},
	"monday":    {kind: 'C', size: 30},
	"tuesday":   {kind: 'C', size: 30},
	"wednesday": {kind: 'C', size: 30},
	"thursday":  {kind: 'C', size: 30},
	"friday":    {kind: 'C', size: 30},
	"saturday":  {kind: 'C', size: 30},
	"sunday":    {kind: 'C', size: 30},
	"comments":  {kind: 'C', size: 254},
	"brew_type": {kind: 'C', size: 50},
	"website":   {kind: 'C', size: 254},
	"x":         {kind: 'F', size: 16},
	"y":         {kind: 'F', size: 16},
}

// exportShapefile builds one point feature per row from the x/y columns,
// bundles the shapefile parts plus a .prj into a zip and removes the
// intermediate directory.
func (e *Exporter) exportShapefile(entity *model.Entity, rows []map[string]any, fields []string) (string, error) {
	if len(rows) == 0 {
		return "", ErrNothingToExport
	}

	first := rows[0]
	fieldList := make([]string, 0, len(fields))

	for _, field := range entity.Fields {
		if !containsField(fields, field) {
			continue
		}

		if _, mapped := shapeSchema[field]; !mapped {
			continue
		}

		if _, present := first[field]; !present {
			continue
		}

		fieldList = append(fieldList, field)
	}

	basename := timestampName(entity.Table)
	folder := filepath.Join(e.DownloadDir, basename)

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}

	if err := e.writeShapefile(filepath.Join(folder, basename+".shp"), rows, fieldList); err != nil {
		return "", err
	}

	prj := filepath.Join(folder, basename+".prj")
	if err := os.WriteFile(prj, []byte(WGS84), 0o644); err != nil {
		return "", err
	}

	archive := folder + ".zip"
	if err := zipFolder(folder, archive); err != nil {
		return "", err
	}

	if err := os.RemoveAll(folder); err != nil {
		e.Logger.Warn("unable to remove shapefile staging folder", zap.String("folder", folder), zap.Error(err))
	}

	return archive, nil
}

func (e *Exporter) writeShapefile(path string, rows []map[string]any, fieldList []string) error {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return err
	}
	defer writer.Close()

	shpFields := make([]shp.Field, 0, len(fieldList))

	for _, field := range fieldList {
		def := shapeSchema[field]

		switch def.kind {
		case 'N':
			shpFields = append(shpFields, shp.NumberField(field, def.size))
		case 'F':
			shpFields = append(shpFields, shp.FloatField(field, def.size, 6))
		default:
			shpFields = append(shpFields, shp.StringField(field, def.size))
		}
	}

	writer.SetFields(shpFields)

	for _, row := range rows {
		index := writer.Write(&shp.Point{X: toFloat(row["x"]), Y: toFloat(row["y"])})

		for i, field := range fieldList {
			if err := writer.WriteAttribute(int(index), i, attributeValue(shapeSchema[field], row[field])); err != nil {
				return err
			}
		}
	}

	return nil
}

func attributeValue(def shapeField, value any) any {
	switch def.kind {
	case 'N':
		return int(toFloat(value))
	case 'F':
		return toFloat(value)
	default:
		if value == nil {
			return ""
		}

		return fmt.Sprint(value)
	}
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return 0
	}
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}

	return false
}

func zipFolder(folder string, archive string) error {
	out, err := os.Create(archive)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	entries, err := os.ReadDir(folder)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if err := zipFile(zw, filepath.Join(folder, entry.Name()), entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

func zipFile(zw *zip.Writer, path string, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, file)

	return err
}

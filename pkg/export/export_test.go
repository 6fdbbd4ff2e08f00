package export_test

import (
	"archive/zip"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"droscher.com/BreweryFinder/pkg/export"
	"droscher.com/BreweryFinder/pkg/model"
)

type ExportTestSuite struct {
	suite.Suite
	exporter *export.Exporter
}

func TestExportTestSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (suite *ExportTestSuite) SetupTest() {
	suite.exporter = export.NewExporter(suite.T().TempDir(), zaptest.NewLogger(suite.T()))
}

func breweryRows() []map[string]any {
	return []map[string]any{
		{"id": int64(1), "name": "Hop Forge", "city": "Portland", "x": -122.68, "y": 45.52},
		{"id": int64(2), "name": "Mash Tun", "city": "Bend", "x": -121.31, "y": 44.06},
	}
}

func (suite *ExportTestSuite) TestExport_WritesCSVWithHeader() {
	fields := []string{"id", "name", "city"}

	path, err := suite.exporter.Export(model.MustLookup("breweries"), breweryRows(), fields, "csv")
	suite.Require().NoError(err)
	suite.Equal(".csv", filepath.Ext(path))
	suite.True(strings.HasPrefix(filepath.Base(path), "breweries_"))

	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	suite.Equal(fields, records[0])
	suite.Equal([]string{"1", "Hop Forge", "Portland"}, records[1])
	suite.Equal([]string{"2", "Mash Tun", "Bend"}, records[2])
}

func (suite *ExportTestSuite) TestExport_CSVRendersMissingValuesEmpty() {
	rows := []map[string]any{{"id": int64(1), "name": "Hop Forge"}}

	path, err := suite.exporter.Export(model.MustLookup("breweries"), rows, []string{"id", "name", "website"}, "csv")
	suite.Require().NoError(err)

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "1,Hop Forge,\n")
}

func (suite *ExportTestSuite) TestExport_EmptyCSVStillHasHeader() {
	path, err := suite.exporter.Export(model.MustLookup("breweries"), nil, []string{"id", "name"}, "csv")
	suite.Require().NoError(err)

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Equal("id,name\n", string(data))
}

func (suite *ExportTestSuite) TestExport_ShapefileZipsPartsAndProjection() {
	fields := []string{"id", "name", "city", "x", "y"}

	path, err := suite.exporter.Export(model.MustLookup("breweries"), breweryRows(), fields, "shapefile")
	suite.Require().NoError(err)
	suite.Equal(".zip", filepath.Ext(path))

	reader, err := zip.OpenReader(path)
	suite.Require().NoError(err)
	defer reader.Close()

	names := make(map[string]bool)
	for _, entry := range reader.File {
		names[filepath.Ext(entry.Name)] = true
	}

	suite.True(names[".shp"])
	suite.True(names[".dbf"])
	suite.True(names[".shx"])
	suite.True(names[".prj"])

	// staging folder is gone once the zip exists
	staging := strings.TrimSuffix(path, ".zip")
	_, err = os.Stat(staging)
	suite.True(os.IsNotExist(err))
}

func (suite *ExportTestSuite) TestExport_ShapefileWithNoRows() {
	path, err := suite.exporter.Export(model.MustLookup("breweries"), nil, []string{"id", "name"}, "shapefile")
	suite.Require().ErrorIs(err, export.ErrNothingToExport)
	suite.Empty(path)
}

func (suite *ExportTestSuite) TestExport_ShapefileOnlyForBreweries() {
	rows := []map[string]any{{"id": int64(1), "name": "Pilsner"}}

	path, err := suite.exporter.Export(model.MustLookup("beers"), rows, []string{"id", "name"}, "shapefile")
	suite.Require().NoError(err)
	suite.Equal(".csv", filepath.Ext(path))
}

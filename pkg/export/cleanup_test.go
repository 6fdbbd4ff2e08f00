package export_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"droscher.com/BreweryFinder/pkg/export"
)

type CleanupTestSuite struct {
	suite.Suite
	exporter *export.Exporter
	dir      string
}

func TestCleanupTestSuite(t *testing.T) {
	suite.Run(t, new(CleanupTestSuite))
}

func (suite *CleanupTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.exporter = export.NewExporter(suite.dir, zaptest.NewLogger(suite.T()))
}

// ageFile backdates a file's modification time by the given duration.
func (suite *CleanupTestSuite) ageFile(name string, age time.Duration) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte("data"), 0o644))

	old := time.Now().Add(-age)
	suite.Require().NoError(os.Chtimes(path, old, old))

	return path
}

func (suite *CleanupTestSuite) exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_RemovesOnlyOldFiles() {
	old := suite.ageFile("breweries_old.csv", 48*time.Hour)
	fresh := suite.ageFile("breweries_new.csv", time.Minute)

	err := suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour})
	suite.Require().NoError(err)

	suite.False(suite.exists(old))
	suite.True(suite.exists(fresh))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_SkipsLockFiles() {
	lock := suite.ageFile("export.lock", 48*time.Hour)

	err := suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour})
	suite.Require().NoError(err)

	suite.True(suite.exists(lock))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_HonorsExclusionGlobs() {
	kept := suite.ageFile("keep_this.csv", 48*time.Hour)
	gone := suite.ageFile("drop_this.csv", 48*time.Hour)

	err := suite.exporter.RemoveOldFiles(suite.dir, export.Options{
		MaxAge:  24 * time.Hour,
		Exclude: []string{"keep_*"},
	})
	suite.Require().NoError(err)

	suite.True(suite.exists(kept))
	suite.False(suite.exists(gone))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_HonorsPattern() {
	csv := suite.ageFile("breweries.csv", 48*time.Hour)
	zip := suite.ageFile("breweries.zip", 48*time.Hour)

	err := suite.exporter.RemoveOldFiles(suite.dir, export.Options{
		MaxAge:  24 * time.Hour,
		Pattern: "*.zip",
	})
	suite.Require().NoError(err)

	suite.True(suite.exists(csv))
	suite.False(suite.exists(zip))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_DryRunKeepsEverything() {
	old := suite.ageFile("breweries_old.csv", 48*time.Hour)

	err := suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour, DryRun: true})
	suite.Require().NoError(err)

	suite.True(suite.exists(old))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_SkipsSubdirsUnlessAsked() {
	sub := filepath.Join(suite.dir, "nested")
	suite.Require().NoError(os.MkdirAll(sub, 0o755))

	nested := filepath.Join(sub, "old.csv")
	suite.Require().NoError(os.WriteFile(nested, []byte("data"), 0o644))

	old := time.Now().Add(-48 * time.Hour)
	suite.Require().NoError(os.Chtimes(nested, old, old))

	suite.Require().NoError(suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour}))
	suite.True(suite.exists(nested))

	suite.Require().NoError(suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour, Subdirs: true}))
	suite.False(suite.exists(nested))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_SkipsGeodatabaseDirs() {
	gdb := filepath.Join(suite.dir, "staging.gdb")
	suite.Require().NoError(os.MkdirAll(gdb, 0o755))

	inside := filepath.Join(gdb, "table.dat")
	suite.Require().NoError(os.WriteFile(inside, []byte("data"), 0o644))

	old := time.Now().Add(-48 * time.Hour)
	suite.Require().NoError(os.Chtimes(inside, old, old))

	suite.Require().NoError(suite.exporter.RemoveOldFiles(suite.dir, export.Options{MaxAge: 24 * time.Hour, Subdirs: true}))
	suite.True(suite.exists(inside))
}

func (suite *CleanupTestSuite) TestRemoveOldFiles_MissingDirIsNotAnError() {
	suite.NoError(suite.exporter.RemoveOldFiles(filepath.Join(suite.dir, "absent"), export.Options{}))
}

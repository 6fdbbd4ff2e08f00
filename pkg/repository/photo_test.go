package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"droscher.com/BreweryFinder/pkg/repository"
)

type PhotoTestSuite struct {
	RepositorySuite
}

func TestPhotoTestSuite(t *testing.T) {
	suite.Run(t, new(PhotoTestSuite))
}

func (suite *PhotoTestSuite) TestGetBeerPhoto_ReturnsPhoto() {
	suite.mock.ExpectQuery(`^SELECT \* FROM "beer_photos" WHERE "beer_photos"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "beer_id", "photo_name"}).
			AddRow(int64(3), int64(5), "fresh_hop.jpg"))

	photo, err := suite.repository.GetBeerPhoto(context.Background(), "3")
	suite.Require().NoError(err)
	suite.Equal(uint(5), photo.BeerID)
	suite.Equal("fresh_hop.jpg", photo.PhotoName)
}

func (suite *PhotoTestSuite) TestGetBeerPhoto_MalformedID() {
	photo, err := suite.repository.GetBeerPhoto(context.Background(), "fresh_hop.jpg")
	suite.Require().ErrorIs(err, repository.ErrNotFound)
	suite.Nil(photo)
}

func (suite *PhotoTestSuite) TestGetBeerPhoto_MissingRow() {
	suite.mock.ExpectQuery(`^SELECT \* FROM "beer_photos"`).WillReturnError(gorm.ErrRecordNotFound)

	photo, err := suite.repository.GetBeerPhoto(context.Background(), "404")
	suite.Require().ErrorIs(err, repository.ErrNotFound)
	suite.Nil(photo)
}

func (suite *PhotoTestSuite) TestAddBeerPhoto_InsertsRecord() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beer_photos"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	suite.mock.ExpectCommit()

	photo, err := suite.repository.AddBeerPhoto(context.Background(), 5, "fresh_hop.jpg", []byte{0xFF, 0xD8})
	suite.Require().NoError(err)
	suite.Equal(uint(3), photo.ID)
	suite.Equal(uint(5), photo.BeerID)
}

func (suite *PhotoTestSuite) TestUpdateBeerPhoto_ReplacesNameAndData() {
	suite.mock.ExpectQuery(`^SELECT \* FROM "beer_photos" WHERE "beer_photos"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "beer_id", "photo_name"}).
			AddRow(int64(3), int64(5), "old.jpg"))

	photo, err := suite.repository.GetBeerPhoto(context.Background(), "3")
	suite.Require().NoError(err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`^UPDATE "beer_photos" SET "data"=\$1,"photo_name"=\$2 WHERE "id" = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err = suite.repository.UpdateBeerPhoto(context.Background(), photo, "new.jpg", []byte{0xFF, 0xD8})
	suite.Require().NoError(err)
}

func (suite *PhotoTestSuite) TestDeleteBeerPhoto_ReturnsDeletedID() {
	suite.mock.ExpectQuery(`^SELECT \* FROM "beer_photos" WHERE "beer_photos"\."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "beer_id", "photo_name"}).
			AddRow(int64(3), int64(5), "fresh_hop.jpg"))

	photo, err := suite.repository.GetBeerPhoto(context.Background(), "3")
	suite.Require().NoError(err)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`^DELETE FROM "beer_photos" WHERE "beer_photos"\."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	id, err := suite.repository.DeleteBeerPhoto(context.Background(), photo)
	suite.Require().NoError(err)
	suite.Equal(uint(3), id)
}

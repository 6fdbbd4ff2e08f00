package model_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"droscher.com/BreweryFinder/pkg/model"
)

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestLookup_FindsAllEntities() {
	for _, name := range []string{"breweries", "beers", "beer_photos", "categories", "styles", "users"} {
		entity, ok := model.Lookup(name)
		suite.Require().True(ok, name)
		suite.Equal(name, entity.Name)
		suite.Equal(name, entity.Table)
		suite.NotNil(entity.Model)
	}
}

func (suite *RegistryTestSuite) TestLookup_UnknownEntity() {
	entity, ok := model.Lookup("kegs")
	suite.False(ok)
	suite.Nil(entity)
}

func (suite *RegistryTestSuite) TestMustLookup_PanicsOnUnknownEntity() {
	suite.Panics(func() { model.MustLookup("kegs") })
}

func (suite *RegistryTestSuite) TestFields_KeepSchemaOrder() {
	beers := model.MustLookup("beers")
	suite.Equal([]string{"id", "brewery_id", "name", "description", "style", "alc", "ibu", "color", "created_by"}, beers.Fields)

	styles := model.MustLookup("styles")
	suite.Equal([]string{"id", "cat_id", "style_name", "last_mod"}, styles.Fields)
}

func (suite *RegistryTestSuite) TestProjection_HidesBlobAndCredentialColumns() {
	photos := model.MustLookup("beer_photos")
	suite.Equal([]string{"id", "beer_id", "photo_name"}, photos.Projection())

	users := model.MustLookup("users")
	suite.Equal([]string{"id", "name", "email", "username", "activated"}, users.Projection())
	suite.NotContains(users.Projection(), "password")
	suite.NotContains(users.Projection(), "token")

	breweries := model.MustLookup("breweries")
	suite.Equal(breweries.Fields, breweries.Projection())
}

func (suite *RegistryTestSuite) TestChildren_DescribeCascade() {
	breweries := model.MustLookup("breweries")
	suite.Require().Len(breweries.Children, 1)
	suite.Equal("beers", breweries.Children[0].Entity)
	suite.Equal("brewery_id", breweries.Children[0].Column)

	beers := model.MustLookup("beers")
	suite.Require().Len(beers.Children, 1)
	suite.Equal("beer_photos", beers.Children[0].Entity)
}

func (suite *RegistryTestSuite) TestHasField() {
	beers := model.MustLookup("beers")
	suite.True(beers.HasField("ibu"))
	suite.False(beers.HasField("rating"))
}

func (suite *RegistryTestSuite) TestEntities_SortedByName() {
	all := model.Entities()
	suite.Require().Len(all, 6)

	for i := 1; i < len(all); i++ {
		suite.Less(all[i-1].Name, all[i].Name)
	}
}

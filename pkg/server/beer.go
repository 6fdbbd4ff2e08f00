package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

func (s *Server) getBeers(c *gin.Context) error {
	entity := model.MustLookup("beers")
	args := collectArgs(c)
	fields := repository.ValidateFields(entity, args["fields"])

	return s.endpointQuery(c, entity, args, fields, c.Param("id"))
}

// getBeerPhotosForBeer lists a beer's photos without the payload column.
func (s *Server) getBeerPhotosForBeer(c *gin.Context) error {
	beers := model.MustLookup("beers")
	photos := model.MustLookup("beer_photos")
	ctx := c.Request.Context()

	beer, err := s.repository.GetByID(ctx, beers, c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	rows, err := s.repository.Query(ctx, photos, map[string]any{"beer_id": beer["id"]}, nil)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, repository.Representation(rows, photos.Projection()))

	return nil
}

func (s *Server) getCategories(c *gin.Context) error {
	entity := model.MustLookup("categories")
	args := collectArgs(c)

	return s.endpointQuery(c, entity, args, entity.Projection(), c.Param("id"))
}

// getCategoryStyles lists the styles belonging to one category.
func (s *Server) getCategoryStyles(c *gin.Context) error {
	categories := model.MustLookup("categories")
	styles := model.MustLookup("styles")
	ctx := c.Request.Context()

	category, err := s.repository.GetByID(ctx, categories, c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	rows, err := s.repository.Query(ctx, styles, map[string]any{"cat_id": category["id"]}, nil)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, repository.Representation(rows, styles.Projection()))

	return nil
}

func (s *Server) getStyles(c *gin.Context) error {
	entity := model.MustLookup("styles")
	args := collectArgs(c)

	return s.endpointQuery(c, entity, args, entity.Projection(), c.Param("id"))
}

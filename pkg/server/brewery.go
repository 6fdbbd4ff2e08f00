package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

type geometry struct {
	Type        string `json:"type"`
	Coordinates [2]any `json:"coordinates"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func toGeoJSON(rows []map[string]any) featureCollection {
	features := make([]feature, 0, len(rows))

	for _, row := range rows {
		features = append(features, feature{
			Type:       "Feature",
			Properties: row,
			Geometry:   geometry{Type: "Point", Coordinates: [2]any{row["x"], row["y"]}},
		})
	}

	return featureCollection{Type: "FeatureCollection", Features: features}
}

// getBreweries lists or fetches breweries; f=geojson switches the response
// shape to a GeoJSON FeatureCollection.
func (s *Server) getBreweries(c *gin.Context) error {
	entity := model.MustLookup("breweries")
	args := collectArgs(c)
	fields := repository.ValidateFields(entity, args["fields"])
	geoJSON := strings.EqualFold(argString(args, "f"), "geojson")

	if id := c.Param("id"); id != "" {
		row, err := s.repository.GetByID(c.Request.Context(), entity, id)
		if err != nil {
			return notFoundOr(err)
		}

		projected := repository.RepresentationOne(row, fields)
		if geoJSON {
			c.JSON(http.StatusOK, toGeoJSON([]map[string]any{projected}))
		} else {
			c.JSON(http.StatusOK, projected)
		}

		return nil
	}

	wildcards := wildcardList(args)
	stripMetaArgs(args)

	rows, err := s.repository.Query(c.Request.Context(), entity, args, wildcards)
	if err != nil {
		return err
	}

	projected := repository.Representation(rows, fields)
	if geoJSON {
		c.JSON(http.StatusOK, toGeoJSON(projected))
	} else {
		c.JSON(http.StatusOK, projected)
	}

	return nil
}

// getBreweryBeers lists a brewery's beers or fetches one of them.
func (s *Server) getBreweryBeers(c *gin.Context) error {
	breweries := model.MustLookup("breweries")
	beers := model.MustLookup("beers")
	ctx := c.Request.Context()

	brewery, err := s.repository.GetByID(ctx, breweries, c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	fields := beers.Projection()

	if bid := c.Param("bid"); bid != "" {
		beer, err := s.repository.GetByID(ctx, beers, bid)
		if err != nil {
			return notFoundOr(err)
		}

		if fmt.Sprint(beer["brewery_id"]) != fmt.Sprint(brewery["id"]) {
			return notFoundOr(repository.ErrNotFound)
		}

		c.JSON(http.StatusOK, repository.RepresentationOne(beer, fields))

		return nil
	}

	rows, err := s.repository.Query(ctx, beers, map[string]any{"brewery_id": brewery["id"]}, nil)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, repository.Representation(rows, fields))

	return nil
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

// success writes the uniform success envelope with optional extra fields.
func success(c *gin.Context, message string, extras gin.H) {
	payload := gin.H{"status": "success", "message": message}
	for key, value := range extras {
		payload[key] = value
	}

	c.JSON(http.StatusOK, payload)
}

// collectArgs merges query string, form data and raw JSON body into one
// request-parameter mapping, later keys overriding earlier ones.
func collectArgs(c *gin.Context) map[string]any {
	data := map[string]any{}

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err == nil {
			for key, value := range body {
				data[key] = value
			}
		}
	} else {
		// also parses non-multipart form bodies
		_ = c.Request.ParseMultipartForm(32 << 20)

		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				data[key] = values[0]
			}
		}
	}

	return data
}

func argString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}

	return fmt.Sprint(value)
}

// wildcardList reads the "wildcards" parameter naming fields that should
// match by substring instead of equality.
func wildcardList(args map[string]any) []string {
	raw := argString(args, "wildcards")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}

	return fields
}

// stripMetaArgs drops parameters that steer the request rather than describe
// record columns.
func stripMetaArgs(args map[string]any) {
	for _, key := range []string{"fields", "wildcards", "f", "token"} {
		delete(args, key)
	}
}

// endpointQuery serves the shared fetch-one-by-id-or-filter contract behind
// most read endpoints. args must be the request parameters collected once by
// the caller; the request body is not readable twice.
func (s *Server) endpointQuery(c *gin.Context, entity *model.Entity, args map[string]any, fields []string, id string) error {
	ctx := c.Request.Context()

	if id != "" {
		row, err := s.repository.GetByID(ctx, entity, id)
		if err != nil {
			return notFoundOr(err)
		}

		c.JSON(http.StatusOK, repository.RepresentationOne(row, fields))

		return nil
	}

	wildcards := wildcardList(args)
	stripMetaArgs(args)

	rows, err := s.repository.Query(ctx, entity, args, wildcards)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, repository.Representation(rows, fields))

	return nil
}

// notFoundOr maps the repository's missing-record sentinel to the
// InvalidResource catalog condition and passes everything else through.
func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.InvalidResource
	}

	return err
}

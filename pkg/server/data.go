package server

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/auth"
	"droscher.com/BreweryFinder/pkg/export"
	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

// dataTables are the entities exposed through the generic /data routes.
var dataTables = map[string]bool{
	"breweries":  true,
	"beers":      true,
	"styles":     true,
	"categories": true,
}

func dataEntity(name string) (*model.Entity, error) {
	if !dataTables[name] {
		return nil, apierror.InvalidResource
	}

	entity, ok := model.Lookup(name)
	if !ok {
		return nil, apierror.InvalidResource
	}

	return entity, nil
}

func (s *Server) createItem(c *gin.Context) error {
	entity, err := dataEntity(c.Param("table"))
	if err != nil {
		return err
	}

	args := collectArgs(c)
	stripMetaArgs(args)

	if user := auth.CurrentUser(c); user != nil && entity.HasField("created_by") {
		args["created_by"] = user.ID
	}

	id, err := s.repository.Create(c.Request.Context(), entity, args)
	if err != nil {
		return translateRecordErr(err)
	}

	success(c, fmt.Sprintf("Successfully created new item in %q", entity.Name), gin.H{"id": id})

	return nil
}

func (s *Server) updateItem(c *gin.Context) error {
	entity, err := dataEntity(c.Param("table"))
	if err != nil {
		return err
	}

	args := collectArgs(c)
	stripMetaArgs(args)

	if err := s.repository.Update(c.Request.Context(), entity, c.Param("id"), args); err != nil {
		return translateRecordErr(err)
	}

	success(c, fmt.Sprintf("Successfully updated item in %q", entity.Name), gin.H{"id": c.Param("id")})

	return nil
}

func (s *Server) deleteItem(c *gin.Context) error {
	entity, err := dataEntity(c.Param("table"))
	if err != nil {
		return err
	}

	id, err := s.repository.Delete(c.Request.Context(), entity, c.Param("id"))
	if err != nil {
		return translateRecordErr(err)
	}

	success(c, fmt.Sprintf("Successfully deleted item in %q", entity.Name), gin.H{"id": id})

	return nil
}

// translateRecordErr maps generic record-layer failures onto the error
// catalog: missing rows and dangling foreign keys are client errors, not
// server faults.
func translateRecordErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apierror.InvalidResource
	case errors.Is(err, repository.ErrMissingParent):
		return apierror.InvalidResource.WithMessage(err.Error())
	case errors.Is(err, repository.ErrUnknownField):
		return apierror.Dynamic(0, "", err.Error())
	default:
		return err
	}
}

func (s *Server) exportTable(c *gin.Context) error {
	entity, err := dataEntity(c.Param("table"))
	if err != nil {
		return err
	}

	args := collectArgs(c)
	fields := repository.ValidateFields(entity, args["fields"])

	format := argString(args, "f")
	if format == "" {
		format = "csv"
	}

	wildcards := wildcardList(args)
	stripMetaArgs(args)

	rows, err := s.repository.Query(c.Request.Context(), entity, args, wildcards)
	if err != nil {
		return err
	}

	outPath, err := s.exporter.Export(entity, repository.Representation(rows, fields), fields, format)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			return apierror.Dynamic(0, "Nothing To Export", "no records matched the export query")
		}

		return err
	}

	name := filepath.Base(outPath)

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	success(c, "successfully exported data", gin.H{
		"filename": name,
		"url":      fmt.Sprintf("%s://%s/downloads/%s", scheme, c.Request.Host, name),
	})

	return nil
}

package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

func (s *Server) getBeerPhotos(c *gin.Context) error {
	entity := model.MustLookup("beer_photos")
	args := collectArgs(c)
	fields := repository.ValidateFields(entity, args["fields"])

	return s.endpointQuery(c, entity, args, fields, c.Param("id"))
}

// downloadBeerPhoto streams the thumbnail bytes as an attachment regardless
// of where they live.
func (s *Server) downloadBeerPhoto(c *gin.Context) error {
	beerPhoto, err := s.repository.GetBeerPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	data, err := s.storage.Retrieve(beerPhoto)
	if err != nil {
		return apierror.InvalidResource.WithMessage(fmt.Sprintf("photo %q is unavailable", beerPhoto.PhotoName))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", beerPhoto.PhotoName))
	c.Data(http.StatusOK, "image/jpeg", data)

	return nil
}

func readUpload(file multipart.File) ([]byte, error) {
	defer file.Close()

	return io.ReadAll(file)
}

func (s *Server) addBeerPhoto(c *gin.Context) error {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		return apierror.Dynamic(0, "Missing Photo", "a photo file is required for submitting a photo")
	}

	data, err := readUpload(file)
	if err != nil {
		return err
	}

	beers := model.MustLookup("beers")

	beer, err := s.repository.GetByID(c.Request.Context(), beers, c.Request.FormValue("beer_id"))
	if err != nil {
		return apierror.Dynamic(0, "Missing Beer ID", "A Beer ID is required for submitting a photo")
	}

	stored, err := s.storage.Store(header.Filename, data)
	if err != nil {
		return apierror.Dynamic(0, "", err.Error())
	}

	beerID := strconv.FormatUint(uint64(toUintArg(beer["id"])), 10)
	s.logger.Info("storing beer photo", zap.String("beer_id", beerID), zap.String("photo", stored.Name))

	beerPhoto, err := s.repository.AddBeerPhoto(c.Request.Context(), toUintArg(beer["id"]), stored.Name, stored.Data)
	if err != nil {
		return err
	}

	success(c, "successfully added photo", gin.H{"id": beerPhoto.ID})

	return nil
}

func (s *Server) updateBeerPhoto(c *gin.Context) error {
	beerPhoto, err := s.repository.GetBeerPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		return apierror.Dynamic(0, "Missing Photo", "a photo file is required for updating a photo")
	}

	data, err := readUpload(file)
	if err != nil {
		return err
	}

	// best-effort: a stale file on disk must not block the update
	if err := s.storage.Remove(beerPhoto); err != nil {
		s.logger.Warn("unable to remove replaced photo", zap.String("photo", beerPhoto.PhotoName), zap.Error(err))
	}

	stored, err := s.storage.Store(header.Filename, data)
	if err != nil {
		return apierror.Dynamic(0, "", err.Error())
	}

	if err := s.repository.UpdateBeerPhoto(c.Request.Context(), beerPhoto, stored.Name, stored.Data); err != nil {
		return err
	}

	success(c, "successfully updated photo", gin.H{"id": beerPhoto.ID})

	return nil
}

func (s *Server) deleteBeerPhoto(c *gin.Context) error {
	beerPhoto, err := s.repository.GetBeerPhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}

	if err := s.storage.Remove(beerPhoto); err != nil {
		s.logger.Warn("unable to remove deleted photo", zap.String("photo", beerPhoto.PhotoName), zap.Error(err))
	}

	id, err := s.repository.DeleteBeerPhoto(c.Request.Context(), beerPhoto)
	if err != nil {
		return err
	}

	success(c, "successfully deleted photo", gin.H{"id": id})

	return nil
}

func toUintArg(value any) uint {
	switch v := value.(type) {
	case int64:
		return uint(v)
	case uint64:
		return uint(v)
	case int:
		return uint(v)
	case uint:
		return v
	case int32:
		return uint(v)
	case float64:
		return uint(v)
	default:
		return 0
	}
}

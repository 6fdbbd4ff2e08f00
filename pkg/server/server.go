package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/configs"
	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/auth"
	"droscher.com/BreweryFinder/pkg/export"
	"droscher.com/BreweryFinder/pkg/mail"
	"droscher.com/BreweryFinder/pkg/photo"
	"droscher.com/BreweryFinder/pkg/repository"
)

type Server struct {
	repository *repository.Repository
	auth       *auth.Manager
	storage    photo.Storage
	exporter   *export.Exporter
	mailer     *mail.Mailer
	logger     *zap.Logger
	config     *configs.Config
	engine     *gin.Engine
}

func New(repo *repository.Repository, authManager *auth.Manager, storage photo.Storage,
	exporter *export.Exporter, mailer *mail.Mailer, logger *zap.Logger, config *configs.Config,
) *Server {
	s := &Server{
		repository: repo,
		auth:       authManager,
		storage:    storage,
		exporter:   exporter,
		mailer:     mailer,
		logger:     logger,
		config:     config,
		engine:     gin.New(),
	}

	s.engine.Use(s.recovery())
	s.routes()

	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	e := s.engine
	authed := s.auth.RequireUser()

	e.GET("/endpoints", s.handle(s.endpoints))
	e.POST("/endpoints", s.handle(s.endpoints))
	e.GET("/tests/exceptions/:code", s.handle(s.testException))
	e.GET("/downloads/:filename", s.handle(s.download))

	e.GET("/beer/categories", s.handle(s.getCategories))
	e.GET("/beer/categories/:id", s.handle(s.getCategories))
	e.GET("/beer/categories/:id/styles", s.handle(s.getCategoryStyles))
	e.GET("/beer/styles", s.handle(s.getStyles))
	e.GET("/beer/styles/:id", s.handle(s.getStyles))

	e.GET("/breweries", s.handle(s.getBreweries))
	e.GET("/breweries/:id", s.handle(s.getBreweries))
	e.GET("/breweries/:id/beers", s.handle(s.getBreweryBeers))
	e.GET("/breweries/:id/beers/:bid", s.handle(s.getBreweryBeers))

	e.GET("/beers", s.handle(s.getBeers))
	e.GET("/beers/:id", s.handle(s.getBeers))
	e.GET("/beers/:id/photos", s.handle(s.getBeerPhotosForBeer))

	e.GET("/beer_photos", s.handle(s.getBeerPhotos))
	e.GET("/beer_photos/:id", s.handle(s.getBeerPhotos))
	e.GET("/beer_photos/:id/download", s.handle(s.downloadBeerPhoto))
	e.POST("/beer_photo/add", authed, s.handle(s.addBeerPhoto))
	e.POST("/beer_photos/:id/update", authed, s.handle(s.updateBeerPhoto))
	e.PUT("/beer_photos/:id/update", authed, s.handle(s.updateBeerPhoto))
	e.DELETE("/beer_photos/:id/delete", authed, s.handle(s.deleteBeerPhoto))

	e.POST("/data/:table/export", authed, s.handle(s.exportTable))
	e.POST("/data/:table/create", authed, s.handle(s.createItem))
	e.POST("/data/:table/:id/update", authed, s.handle(s.updateItem))
	e.PUT("/data/:table/:id/update", authed, s.handle(s.updateItem))
	e.DELETE("/data/:table/:id/delete", authed, s.handle(s.deleteItem))

	e.GET("/users", s.handle(s.getUsers))
	e.GET("/users/:id", s.handle(s.getUsers))
	e.POST("/users/create", s.handle(s.createUser))
	e.POST("/users/:id/activate", s.handle(s.activateUser))
	e.POST("/users/login", s.handle(s.login))
	e.GET("/users/welcome", authed, s.handle(s.welcome))
	e.POST("/users/logout", authed, s.handle(s.logout))
}

// handle adapts an error-returning handler to gin: every error, catalog or
// ad hoc, leaves through the uniform JSON envelope.
func (s *Server) handle(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			s.logger.Warn("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			apierror.Render(c, err)
		}
	}
}

// recovery keeps panics from reaching the framework's default error page.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec))
				apierror.Render(c, apierror.Dynamic(0, "", fmt.Sprint(rec)))
			}
		}()

		c.Next()
	}
}

// endpoints enumerates the registered routes sorted by URL.
func (s *Server) endpoints(c *gin.Context) error {
	byURL := map[string][]string{}
	for _, route := range s.engine.Routes() {
		byURL[route.Path] = append(byURL[route.Path], route.Method)
	}

	urls := make([]string, 0, len(byURL))
	for url := range byURL {
		urls = append(urls, url)
	}

	sort.Strings(urls)

	output := make([]gin.H, 0, len(urls))

	for _, url := range urls {
		methods := byURL[url]
		sort.Strings(methods)
		output = append(output, gin.H{"url": url, "methods": strings.Join(methods, ",")})
	}

	c.JSON(http.StatusOK, gin.H{"endpoints": output})

	return nil
}

// testException previews a catalog error by status code.
func (s *Server) testException(c *gin.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return apierror.InvalidResource
	}

	if known, ok := apierror.Catalog[code]; ok {
		return known
	}

	return apierror.InvalidResource
}

func (s *Server) download(c *gin.Context) error {
	name := filepath.Base(c.Param("filename"))
	c.FileAttachment(filepath.Join(s.exporter.DownloadDir, name), name)

	return nil
}

package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/auth"
	"droscher.com/BreweryFinder/pkg/mail"
	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

// userFields is the projection allow-list for user records; credentials and
// tokens never leave through the read endpoints.
var userFields = []string{"id", "name", "username", "email", "activated"}

func (s *Server) getUsers(c *gin.Context) error {
	entity := model.MustLookup("users")
	args := collectArgs(c)

	requested := repository.ValidateFields(entity, args["fields"])
	fields := make([]string, 0, len(requested))

	for _, field := range requested {
		for _, allowed := range userFields {
			if field == allowed {
				fields = append(fields, field)

				break
			}
		}
	}

	if len(fields) == 0 {
		fields = userFields
	}

	return s.endpointQuery(c, entity, args, fields, c.Param("id"))
}

// decodePassword accepts base64-wrapped passwords with a plaintext fallback
// for clients that do not encode.
func decodePassword(raw string) string {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return raw
	}

	return string(decoded)
}

func (s *Server) createUser(c *gin.Context) error {
	args := collectArgs(c)

	username := argString(args, "username")
	password := decodePassword(argString(args, "password"))

	if username == "" || password == "" {
		return apierror.CreateUserError
	}

	user, err := s.repository.CreateUser(c.Request.Context(),
		argString(args, "name"), argString(args, "email"), username, password,
		s.auth.SessionWindow())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return apierror.UsernameAlreadyExists
		}

		s.logger.Error("unable to create user", zap.String("username", username), zap.Error(err))

		return apierror.CreateUserError
	}

	activationURL := strings.ReplaceAll(argString(args, "activation_url"), "{id}", strconv.FormatUint(uint64(user.ID), 10))

	if activationURL != "" {
		if err := s.mailer.SendActivation(user.Email, activationURL); err != nil && !errors.Is(err, mail.ErrNotConfigured) {
			s.logger.Warn("activation email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}

	success(c, fmt.Sprintf("successfully created user: %s", user.Username), gin.H{"activation_url": activationURL})

	return nil
}

func (s *Server) activateUser(c *gin.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return apierror.UserNotFound
	}

	already, err := s.repository.ActivateUser(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.UserNotFound
		}

		return err
	}

	if already {
		success(c, "User is already activated!", nil)

		return nil
	}

	success(c, "Successfully activated user", nil)

	return nil
}

func (s *Server) login(c *gin.Context) error {
	args := collectArgs(c)

	username := argString(args, "username")
	password := decodePassword(argString(args, "password"))

	user, err := s.repository.CheckUser(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return apierror.InvalidCredentials
		}

		return err
	}

	if !user.Activated {
		return apierror.UserNotActivated
	}

	if err := s.repository.TouchLogin(c.Request.Context(), user, s.auth.SessionWindow()); err != nil {
		return err
	}

	if err := s.auth.IssueSessionCookie(c, user); err != nil {
		return err
	}

	success(c, "user logged in", gin.H{"token": user.Token})

	return nil
}

func (s *Server) welcome(c *gin.Context) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return apierror.UnauthorizedUser
	}

	success(c, fmt.Sprintf("Welcome %s", user.Name), nil)

	return nil
}

func (s *Server) logout(c *gin.Context) error {
	s.auth.ClearSessionCookie(c)
	success(c, "successfully logged out", nil)

	return nil
}

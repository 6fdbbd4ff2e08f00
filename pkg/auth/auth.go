// Package auth resolves the requesting user from either the signed session
// cookie set at login or an explicit opaque token carried in a request
// parameter or header. The two paths fail with distinct error conditions so
// API clients can tell a missing token from an expired one.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/configs"
	"droscher.com/BreweryFinder/pkg/apierror"
	"droscher.com/BreweryFinder/pkg/model"
	"droscher.com/BreweryFinder/pkg/repository"
)

const (
	SessionCookie = "session"
	TokenParam    = "token"
	TokenHeader   = "X-Auth-Token"

	userKey = "auth.user"
)

type Manager struct {
	conf   *configs.Config
	repo   *repository.Repository
	logger *zap.Logger
}

func NewManager(conf *configs.Config, repo *repository.Repository, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, repo: repo, logger: logger}
}

// SessionWindow is how long a login remains valid: a fixed window from the
// login instant, 8 hours unless configured otherwise.
func (a *Manager) SessionWindow() time.Duration {
	hours := a.conf.Auth.SessionHours
	if hours <= 0 {
		hours = 8
	}

	return time.Duration(hours) * time.Hour
}

// IssueSessionCookie signs a session cookie for the user, expiring with the
// session window.
func (a *Manager) IssueSessionCookie(c *gin.Context, user *model.User) error {
	window := a.SessionWindow()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(window)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.conf.Auth.SecretKey))
	if err != nil {
		return err
	}

	c.SetCookie(SessionCookie, signed, int(window.Seconds()), "/", "", false, true)

	return nil
}

func (a *Manager) ClearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// RequireUser aborts the request with the proper error envelope when no
// identity can be established; otherwise the user is stored on the context.
func (a *Manager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.Authenticate(c)
		if err != nil {
			apierror.Render(c, err)

			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireUser, or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(userKey)
	if !ok {
		return nil
	}

	user, _ := value.(*model.User)

	return user
}

// Authenticate checks the session cookie first, then falls back to an
// explicit token from query/form parameter or header.
func (a *Manager) Authenticate(c *gin.Context) (*model.User, error) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return a.userFromSession(c, cookie)
	}

	token := extractToken(c)
	if token == "" {
		return nil, apierror.TokenRequired
	}

	user, err := a.repo.GetUserByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.InvalidCredentials
		}

		return nil, err
	}

	if !user.Activated {
		return nil, apierror.UserNotActivated
	}

	if time.Now().UTC().After(user.Expires) {
		return nil, apierror.SessionExpired
	}

	return user, nil
}

func (a *Manager) userFromSession(c *gin.Context, cookie string) (*model.User, error) {
	claims := jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(cookie, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(a.conf.Auth.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierror.SessionExpired
		}

		a.logger.Warn("rejecting invalid session cookie", zap.Error(err))

		return nil, apierror.UnauthorizedUser
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, apierror.UnauthorizedUser
	}

	user, err := a.repo.GetUserByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.UnauthorizedUser
		}

		return nil, err
	}

	return user, nil
}

func extractToken(c *gin.Context) string {
	if token := c.Query(TokenParam); token != "" {
		return token
	}

	if token := c.PostForm(TokenParam); token != "" {
		return token
	}

	if token := c.GetHeader(TokenHeader); token != "" {
		return token
	}

	authorization := c.GetHeader("Authorization")
	for _, prefix := range []string{"Bearer ", "bearer "} {
		if token, found := strings.CutPrefix(authorization, prefix); found {
			return token
		}
	}

	return ""
}

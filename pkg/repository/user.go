package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"droscher.com/BreweryFinder/pkg/model"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const tokenLength = 64

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newToken returns a random opaque session token. Tokens are the lookup key
// for header/parameter based authentication.
func newToken() string {
	buf := make([]byte, tokenLength)
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}

	return string(buf)
}

// CreateUser stores a new, unactivated user with a bcrypt password hash and
// a fresh session token expiring one window from now.
func (r *Repository) CreateUser(ctx context.Context, name, email, username, password string, window time.Duration) (*model.User, error) {
	var count int64
	if result := r.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count); result.Error != nil {
		return nil, result.Error
	}

	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := model.User{
		Name:      name,
		Email:     email,
		Username:  username,
		Password:  string(hash),
		Token:     newToken(),
		Created:   now,
		Expires:   now.Add(window),
		Activated: false,
	}

	if result := r.DB.WithContext(ctx).Create(&user); result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

func (r *Repository) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("token = ?", token).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// CheckUser verifies a username/password pair against the stored bcrypt
// hash. Plaintext is never stored or logged.
func (r *Repository) CheckUser(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, result.Error
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// ActivateUser flips the activation flag. The bool reports whether the user
// was already activated.
func (r *Repository) ActivateUser(ctx context.Context, id uint) (bool, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return false, err
	}

	if user.Activated {
		return true, nil
	}

	result := r.DB.WithContext(ctx).Model(user).Update("activated", true)

	return false, result.Error
}

// TouchLogin records a successful login and extends the token expiry to one
// full window from the login instant.
func (r *Repository) TouchLogin(ctx context.Context, user *model.User, window time.Duration) error {
	now := time.Now().UTC()
	expires := now.Add(window)

	result := r.DB.WithContext(ctx).Model(user).Updates(map[string]any{
		"last_login": now,
		"expires":    expires,
	})
	if result.Error != nil {
		return result.Error
	}

	user.LastLogin = &now
	user.Expires = expires

	return nil
}

// Package apierror is the fixed catalog of named HTTP error conditions plus
// the uniform JSON envelope every error is rendered through. The non-standard
// status codes (461, 463, 499, 513, 46x) are deliberate distinguishing
// signals for API clients.
package apierror

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
)

type Error struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

// WithMessage returns a copy of the catalog error carrying a more specific
// message; the original stays untouched so errors.Is comparisons against the
// catalog keep working via Is below.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message

	return &clone
}

func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Code == other.Code && e.Name == other.Name
}

// InvalidCredentials is 401 and UnauthorizedUser 403; earlier revisions of
// the API swapped the two and clients depend on one consistent mapping.
var (
	InvalidCredentials    = &Error{Code: 401, Name: "Invalid Credentials", Message: "Access Denied: Invalid Credentials"}
	UnauthorizedUser      = &Error{Code: 403, Name: "Unauthorized User", Message: "Access Denied: Unauthorized User"}
	TokenRequired         = &Error{Code: 461, Name: "Token Required", Message: "Access Denied: a Token is required to access this resource"}
	TokenExpired          = &Error{Code: 499, Name: "Token Expired", Message: "Access Denied: the user Token is expired"}
	SessionExpired        = &Error{Code: 463, Name: "Session Expired", Message: "Your session has expired, please login again"}
	InvalidResource       = &Error{Code: 513, Name: "Invalid Resource", Message: "The requested resource is invalid, please check the request parameters and try again"}
	UsernameAlreadyExists = &Error{Code: 460, Name: "Username Already Exists", Message: "The username supplied is already in use, please try a different name"}
	CreateUserError       = &Error{Code: 464, Name: "Create User Error", Message: "Unable to create user, please check the input parameters and try again"}
	UserNotFound          = &Error{Code: 465, Name: "User Not Found", Message: "Could not find user"}
	UserNotActivated      = &Error{Code: 466, Name: "User is not Activated", Message: "The user has not activated their account"}
)

// Catalog indexes the named conditions by status code for the preview route.
var Catalog = map[int]*Error{
	InvalidCredentials.Code:    InvalidCredentials,
	UnauthorizedUser.Code:      UnauthorizedUser,
	TokenRequired.Code:         TokenRequired,
	TokenExpired.Code:          TokenExpired,
	SessionExpired.Code:        SessionExpired,
	InvalidResource.Code:       InvalidResource,
	UsernameAlreadyExists.Code: UsernameAlreadyExists,
	CreateUserError.Code:       CreateUserError,
	UserNotFound.Code:          UserNotFound,
	UserNotActivated.Code:      UserNotActivated,
}

const (
	defaultCode    = 501
	defaultName    = "Runtime Error"
	defaultMessage = "A runtime error has occurred"
)

// Dynamic builds an ad hoc error condition at request time. Zero-value
// arguments fall back to the 501 Runtime Error defaults.
func Dynamic(code int, name string, message string) *Error {
	e := &Error{Code: code, Name: name, Message: message}
	if e.Code == 0 {
		e.Code = defaultCode
	}

	if e.Name == "" {
		e.Name = defaultName
	}

	if e.Message == "" {
		e.Message = defaultMessage
	}

	return e
}

// FromErr classifies an error as a known catalog condition or wraps it into
// an ad hoc one carrying the original error's type name and message.
func FromErr(err error) *Error {
	var apiErr *Error
	if ok := asError(err, &apiErr); ok {
		return apiErr
	}

	return Dynamic(0, typeName(err), err.Error())
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e

			return true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		return defaultName
	}

	name := t.String()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return name
}

type envelope struct {
	Status  string `json:"status"`
	Details *Error `json:"details"`
}

// Render writes the uniform error envelope and sets the HTTP status line to
// the error code. It aborts the gin chain so no handler writes after it.
func Render(c *gin.Context, err error) {
	apiErr := FromErr(err)
	c.AbortWithStatusJSON(apiErr.Code, envelope{Status: "error", Details: apiErr})
}

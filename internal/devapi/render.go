package devapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: true, Message: msg})
}

func fail(c echo.Context, status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return c.JSON(status, envelope{Success: false, Message: msg})
}

// errorHandler renders errors escaping a handler in the envelope format.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		s.logger.Error(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = fail(c, status, msg)
}

// jsonSerializer swaps echo's encoding/json for goccy/go-json.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	return nil
}

type requestValidator struct {
	v *validator.Validate
}

func (r *requestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

// validationMessage turns the first failed field into a short sentence.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		default:
			return field + " is invalid"
		}
	}
	return "Invalid request"
}

// bindValid binds the request into dst and validates it. On failure the
// error response has already been written and handled is true.
func bindValid(c echo.Context, dst any) (handled bool, err error) {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return true, fail(c, he.Code, fmt.Sprint(he.Message))
		}
		return true, fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		return true, fail(c, http.StatusBadRequest, validationMessage(err))
	}
	return false, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/views"
)

// render fills in the values the layout reads on every page.
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := middleware.Current(c)
	data["pageTitle"] = title
	data["isUserAuthenticated"] = sess.User != nil
	data["isAdminAuthenticated"] = sess.Admin != nil
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, name, title string, err error) {
	e := logged(c, err)
	render(c, e.Code, name, title, gin.H{"error": e.Message})
}

func ok(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["isError"] = false
	c.JSON(status, data)
}

func fail(c *gin.Context, err error) {
	e := logged(c, err)
	c.JSON(e.Code, gin.H{"isError": true, "error": e.Message})
}

// logged normalizes err and logs internal failures with their cause.
func logged(c *gin.Context, err error) *apperr.Error {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	return e
}

// NotFound renders the 404 page for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, views.NotFound, "Page Not Found", nil)
}

// bindError turns a gin binding failure into a validation error naming the
// first offending field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation("%s is required", lowerFirst(verrs[0].Field()))
	}
	return apperr.Validation("invalid request body")
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// flexString accepts a JSON string, number or boolean. Browsers post form
// values as strings while API clients send typed values.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*f = ""
	case float64, bool:
		*f = flexString(fmt.Sprint(v))
	default:
		return fmt.Errorf("unexpected JSON value %s", b)
	}
	return nil
}

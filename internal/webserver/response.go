package webserver

import (
	"net/http"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/pkg/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebResponse is the single envelope shape used by every endpoint.
type WebResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a success envelope.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, WebResponse{Success: true, Data: data})
}

// Created writes a success envelope with a 201 status.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, WebResponse{Success: true, Data: data})
}

// OKMessage writes a success envelope carrying only a message.
func OKMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, WebResponse{Success: true, Message: message})
}

// PagedData wraps list results with pagination fields.
type PagedData struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// Paged writes a success envelope around a page of rows.
func Paged(c echo.Context, items interface{}, total int64, page, perPage int) error {
	return OK(c, PagedData{Items: items, Total: total, Page: page, PerPage: perPage})
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

// GetApp returns the application context attached to the request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindInternal:     http.StatusInternalServerError,
}

// errorHandler is the single place the error taxonomy is translated to
// HTTP statuses; handlers just return classified errors. Internal errors
// are logged with full detail and surfaced with a generic message.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch e := err.(type) {
	case *apperr.Error:
		status = kindStatus[e.Kind]
		if e.Kind == apperr.KindInternal {
			zap.L().Error("internal error",
				zap.String("uri", c.Request().RequestURI),
				zap.Error(e))
		} else {
			message = e.Message
		}
	case *echo.HTTPError:
		status = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		}
	case validator.ValidationErrors:
		status = http.StatusBadRequest
		message = e.Error()
	default:
		zap.L().Error("unhandled error",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}

	if werr := c.JSON(status, WebResponse{Success: false, Message: message}); werr != nil {
		zap.L().Error("failed to write error response", zap.Error(werr))
	}
}

package webserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/auth"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	dbContextKey  = "rentit_db"
	appContextKey = "rentit_app"
)

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	appctx app.AppContext
}

var server *WebServer

// The prometheus middleware registers collectors in the default registry;
// registering twice panics, so create it once even if Init runs again (tests).
var (
	promOnce       sync.Once
	promMiddleware echo.MiddlewareFunc
)

func prometheusMiddleware() echo.MiddlewareFunc {
	promOnce.Do(func() {
		promMiddleware = echoprometheus.NewMiddleware("rentit")
	})
	return promMiddleware
}

// Init builds the global web server around the application context.
// Route registration happens afterwards via the Api/Pub helpers.
func Init(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &payloadValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			zap.L().Info("request", fields...)
			return nil
		},
	}))
	e.Use(prometheusMiddleware())

	// request-scoped injection of db handle and app context
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, appctx.DB())
			c.Set(appContextKey, appctx)
			return next(c)
		}
	})
	// token verification attaches the principal; it never rejects
	e.Use(auth.Attach([]byte(appctx.Config().Jwt.Secret)))
	e.Use(maintenanceGate(appctx))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"service":   appctx.Config().System.Appid,
			"timestamp": time.Now().UTC(),
		})
	})

	server = &WebServer{
		root:   e,
		api:    e.Group("/api"),
		appctx: appctx,
	}
	return server
}

// Listen starts serving on the configured address and blocks.
func Listen() error {
	cfg := server.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the server gracefully.
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// TestHandler exposes the echo instance as an http.Handler (used in tests).
func TestHandler() http.Handler {
	return server.root
}

// PubGET registers an unauthenticated API route.
func PubGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// PubPOST registers an unauthenticated API route.
func PubPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PATCH(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// maintenanceGate rejects non-admin writes while the system.maintenance
// setting is enabled. Reads stay open.
func maintenanceGate(appctx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet {
				return next(c)
			}
			if !appctx.GetSettingsBoolValue("system", "maintenance") {
				return next(c)
			}
			if p, ok := auth.FromContext(c); ok && p.Role == auth.RoleAdmin {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Maintenance in progress")
		}
	}
}

// jsonSerializer wires json-iterator as echo's JSON codec.
type jsonSerializer struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsonAPI.NewDecoder(c.Request().Body).Decode(i)
	if err == io.EOF {
		return nil
	}
	return err
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

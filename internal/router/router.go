package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jobportal/internal/auth"
	"jobportal/internal/config"
	"jobportal/internal/errors"
	"jobportal/internal/handler"
	"jobportal/internal/metrics"
	"jobportal/internal/model"
)

// Dependencies are the collaborators the middleware chain needs.
type Dependencies struct {
	Config     *config.Config
	Logger     *slog.Logger
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
	Metrics    *metrics.Metrics
	// Health reports whether backing stores are reachable.
	Health func(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Company *handler.CompanyHandler
	Job     *handler.JobHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Dependencies, h Handlers) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = handler.NewErrorHandler(deps.Logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit(deps.Config.MaxUploadBytes)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     deps.Config.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if deps.Health != nil {
			if err := deps.Health(c.Request().Context()); err != nil {
				deps.Logger.Warn("health check failed", "error", err)
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	user := api.Group("/user")
	user.POST("/register", h.Auth.Register)
	user.POST("/login", h.Auth.Login)
	user.POST("/logout", h.Auth.Logout)

	// Routes below require a session cookie
	session := sessionMiddleware(deps)

	user.GET("/profile", h.User.GetProfile, session...)
	user.PUT("/profile/update", h.User.UpdateProfile, session...)

	company := api.Group("/company", session...)
	company.POST("/register", h.Company.Register, RequireRole(model.RoleRecruiter))
	company.GET("/get", h.Company.List, RequireRole(model.RoleRecruiter))
	company.GET("/get/:id", h.Company.Get)
	company.PUT("/update/:id", h.Company.Update, RequireRole(model.RoleRecruiter))

	job := api.Group("/job", session...)
	job.POST("/post", h.Job.Post, RequireRole(model.RoleRecruiter))
	job.GET("/get", h.Job.List)
	job.GET("/get/:id", h.Job.Get)
	job.GET("/getadminjobs", h.Job.ListMine, RequireRole(model.RoleRecruiter))
}

// bodyLimit leaves 1 MiB of headroom above the largest accepted upload for
// the remaining multipart fields.
func bodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", (maxUpload+1<<20)/1024)
}

// sessionMiddleware verifies the session cookie and rejects revoked
// sessions.
func sessionMiddleware(deps Dependencies) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    deps.JWT.Secret(),
			SigningMethod: jwt.SigningMethodHS256.Alg(),
			TokenLookup:   "cookie:" + auth.CookieName,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return errors.ErrUnauthenticated
			},
		}),
		RequireSession(deps.TokenStore),
	}
}

// RequireSession moves verified claims onto the request context. It must
// run after the JWT middleware.
func RequireSession(store auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return errors.ErrUnauthenticated
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return errors.ErrUnauthenticated
			}
			userID, err := claims.UserUUID()
			if err != nil {
				return errors.ErrUnauthenticated
			}
			if store != nil {
				if revoked, _ := store.IsSessionRevoked(c.Request().Context(), claims.ID); revoked {
					return errors.ErrUnauthenticated
				}
			}
			handler.SetSession(c, userID, model.Role(claims.Role))
			return next(c)
		}
	}
}

// RequireRole rejects callers whose session role differs from role.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if handler.SessionRole(c) != role {
				return errors.Forbidden("Only %ss can access this resource.", role)
			}
			return next(c)
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				logger.ErrorContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

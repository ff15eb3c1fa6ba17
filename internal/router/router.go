package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"notedo/internal/auth"
	"notedo/internal/config"
	"notedo/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	tagHandler *handler.TagHandler,
	noteHandler *handler.NoteHandler,
	profileHandler *handler.ProfileHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded avatars are served from disk under the same prefix stored on
	// the profile.
	e.Static("/avatars", cfg.AvatarDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/activate/:id/:token", authHandler.Activate)
	api.POST("/auth/activate/resend", authHandler.ResendActivation)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/password-reset", authHandler.RequestPasswordReset)
	api.POST("/auth/password-reset/:id/:token", authHandler.ConfirmPasswordReset)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}), blacklistMiddleware(tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	// Tag routes
	secured.GET("/tags", tagHandler.ListTags)
	secured.POST("/tags", tagHandler.CreateTag)
	secured.DELETE("/tags/:id", tagHandler.DeleteTag)

	// Note routes
	secured.GET("/notes", noteHandler.ListNotes)
	secured.POST("/notes", noteHandler.CreateNote)
	secured.GET("/notes/:id", noteHandler.GetNote)
	secured.PUT("/notes/:id", noteHandler.UpdateNote)
	secured.DELETE("/notes/:id", noteHandler.DeleteNote)
	secured.POST("/notes/:id/toggle-done", noteHandler.ToggleDone)
	secured.POST("/notes/:id/deadline", noteHandler.SetDeadline)
	secured.DELETE("/notes/:id/deadline", noteHandler.ClearTodo)

	// Profile routes
	secured.GET("/profile", profileHandler.GetProfile)
	secured.PUT("/profile/bio", profileHandler.UpdateBio)
	secured.PUT("/profile/avatar", profileHandler.UpdateAvatar)
}

// blacklistMiddleware rejects access tokens revoked by logout before their
// natural expiry.
func blacklistMiddleware(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.ID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			blacklisted, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "token check failed")
			}
			if blacklisted {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"skillswap/internal/auth"
	"skillswap/internal/handler"
	"skillswap/internal/metrics"
	"skillswap/internal/middleware"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Skills   *handler.SkillHandler
	Swaps    *handler.SwapHandler
	Feedback *handler.FeedbackHandler
	Admin    *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log zerolog.Logger, authn auth.Authenticator, h Handlers) {
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/skills", h.Skills.List)

	// Secured routes
	secured := api.Group("", middleware.JWT(authn))

	secured.GET("/users/me", h.Users.Me)
	secured.PATCH("/users/me", h.Users.UpdateMe)
	secured.GET("/users/me/skills", h.Users.ListSkills)
	secured.POST("/users/me/skills", h.Users.AddSkill)
	secured.DELETE("/users/me/skills/:skill_id", h.Users.RemoveSkill)
	secured.GET("/users/search", h.Users.Search)
	secured.GET("/users/:id", h.Users.GetUser)

	secured.POST("/swaps", h.Swaps.Create)
	secured.GET("/swaps", h.Swaps.List)
	secured.GET("/swaps/:id", h.Swaps.Get)
	secured.PUT("/swaps/:id/status", h.Swaps.UpdateStatus)
	secured.DELETE("/swaps/:id", h.Swaps.Cancel)

	secured.POST("/feedback", h.Feedback.Submit)
	secured.GET("/feedback/users/:id", h.Feedback.ListForUser)
	secured.GET("/feedback/swaps/:id", h.Feedback.ListForSwap)

	admin := secured.Group("/admin", middleware.RequireAdmin())
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/ban", h.Admin.Ban)
	admin.PUT("/users/:id/unban", h.Admin.Unban)
	admin.GET("/swaps", h.Admin.ListSwaps)
	admin.DELETE("/swaps/:id", h.Admin.DeleteSwap)
	admin.GET("/feedback", h.Admin.ListFeedback)
	admin.DELETE("/feedback/:id", h.Admin.DeleteFeedback)
	admin.POST("/skills", h.Admin.CreateSkill)
	admin.POST("/skills/seed", h.Admin.SeedSkills)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/handler"
	"github.com/iliyamo/internship-registration/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication and no
// domain dependencies.  Currently that is only the health check used by
// load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; the rate limiter is applied to the whole
// group so credential stuffing is throttled at the edge.  Session-scoped
// endpoints (me, logout) live under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/admin/login", a.AdminLogin)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated catalog: programs,
// categories and the province/city reference data.  All of it is read-only
// and safe to cache, so the Redis response cache wraps the whole group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/programs", p.ListPrograms)
	g.GET("/programs/:id", p.GetProgram)
	g.GET("/categories", p.ListCategories)
	g.GET("/provinces", p.ListProvinces)
	g.GET("/provinces/:province_id/cities", p.ListCities)
}

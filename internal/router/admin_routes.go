package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/handler"
	"github.com/iliyamo/internship-registration/internal/middleware"
	"github.com/iliyamo/internship-registration/internal/model"
)

// RegisterAdmin registers the back-office endpoints under /v1/admin.  All
// routes require a valid JWT with the admin role.
func RegisterAdmin(
	e *echo.Echo,
	prog *handler.ProgramAdminHandler,
	reg *handler.RegistrationHandler,
	pay *handler.PaymentHandler,
	sel *handler.SelectionHandler,
	pl *handler.PlacementHandler,
	rep *handler.ReportHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// Program catalog management.
	g.GET("/programs", prog.List)
	g.POST("/programs", prog.Create)
	g.PUT("/programs/:id", prog.Update)
	g.DELETE("/programs/:id", prog.Delete)

	// Registrations and their trackers.
	g.GET("/registrations", reg.AdminList)
	g.GET("/registrations/:id", reg.Get)
	g.PUT("/registrations/:id/status", reg.AdminUpdateStatus)
	g.GET("/registrations/:id/selection", sel.Get)
	g.GET("/registrations/:id/placement", pl.Get)

	// Tracker updates address the dependent row by registration id; the bulk
	// endpoints are the batch form.  The registration-scoped payment update
	// targets the payment opened at registration time.
	g.PUT("/selection/:id", sel.AdminUpdate)
	g.POST("/selection/bulk", sel.AdminBulkUpdate)
	g.PUT("/placement/:id", pl.AdminUpdate)
	g.POST("/placement/bulk", pl.AdminBulkUpdate)
	g.PUT("/registrations/:id/payment", pay.AdminUpdateByRegistration)

	// Payment ledger.
	g.GET("/payments", pay.AdminList)
	g.POST("/payments/manual", pay.AdminCreateManual)
	g.GET("/payments/:id", pay.Get)
	g.PUT("/payments/:id/status", pay.AdminUpdateStatus)
	g.GET("/payments/:id/history", pay.History)
	g.GET("/payments/:id/receipt", pay.AdminGetReceipt)

	// Financial reporting.
	g.GET("/reports/financial", rep.Financial)
	g.GET("/reports/financial/export", rep.Export)
}

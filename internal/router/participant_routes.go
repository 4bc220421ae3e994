package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/handler"
	"github.com/iliyamo/internship-registration/internal/middleware"
	"github.com/iliyamo/internship-registration/internal/model"
)

// RegisterParticipant registers participant-scoped endpoints under /v1.
// All routes require a valid JWT with the participant role.  Participants
// register for programs, follow their own registrations and manage their
// payments (proof upload, installment projection, history).
func RegisterParticipant(e *echo.Echo, reg *handler.RegistrationHandler, pay *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleParticipant),
	)
	g.POST("/registrations", reg.Create)
	g.GET("/my-registrations", reg.ListMine)
	g.GET("/registrations/:id", reg.Get)

	g.GET("/my-payments", pay.ListMine)
	g.GET("/payments/:id", pay.Get)
	g.POST("/payments/:id/proof", pay.UploadProof)
	g.GET("/payments/:id/installment-plan", pay.InstallmentPlan)
	g.GET("/payments/:id/history", pay.History)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/repository"
)

// ReportHandler serves the admin financial views.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{Reports: r}
}

// Financial returns billed/paid/outstanding totals, per-status counts and a
// per-program rollup.
func (h *ReportHandler) Financial(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sum, err := h.Reports.Financial(ctx)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "build report failed")
	}
	return jsonOK(c, http.StatusOK, sum)
}

// Export returns the flat payment lines consumed by the external
// spreadsheet/PDF renderer.
func (h *ReportHandler) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	rows, err := h.Reports.ExportRows(ctx)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "build export failed")
	}
	return jsonOK(c, http.StatusOK, echo.Map{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"rows":         rows,
	})
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/repository"
)

// PublicHandler serves the unauthenticated catalog: programs, categories and
// the province/city reference data used by registration forms.
type PublicHandler struct {
	Programs *repository.ProgramRepo
	Regions  *repository.RegionRepo
}

func NewPublicHandler(p *repository.ProgramRepo, r *repository.RegionRepo) *PublicHandler {
	return &PublicHandler{Programs: p, Regions: r}
}

// ListPrograms returns active programs only.  Filtering by category is
// supported via ?category_id=N.
func (h *PublicHandler) ListPrograms(c echo.Context) error {
	var categoryID uint64
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return jsonErr(c, http.StatusBadRequest, "invalid category_id")
		}
		categoryID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	programs, err := h.Programs.List(ctx, string(model.ProgramActive), categoryID)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list programs failed")
	}
	out := make([]model.ProgramDetail, 0, len(programs))
	for _, p := range programs {
		out = append(out, p.Detail())
	}
	return jsonOK(c, http.StatusOK, out)
}

// GetProgram returns a single program with its decoded JSON document fields
// (curriculum, facilities, timeline, fee breakdown, requirements).  Inactive
// and archived programs stay visible by direct ID so existing participants
// can still read the details of the program they joined.
func (h *PublicHandler) GetProgram(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid program id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProgramNotFound {
			return jsonErr(c, http.StatusNotFound, "program not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load program failed")
	}
	return jsonOK(c, http.StatusOK, p.Detail())
}

// ListCategories returns all program categories.
func (h *PublicHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Programs.ListCategories(ctx)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list categories failed")
	}
	return jsonOK(c, http.StatusOK, cats)
}

// ListProvinces returns the full province list.
func (h *PublicHandler) ListProvinces(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	provinces, err := h.Regions.ListProvinces(ctx)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list provinces failed")
	}
	return jsonOK(c, http.StatusOK, provinces)
}

// ListCities returns the cities of one province.
func (h *PublicHandler) ListCities(c echo.Context) error {
	provinceID, err := pathID(c, "province_id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid province id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cities, err := h.Regions.ListCitiesByProvince(ctx, provinceID)
	if err != nil {
		if err == repository.ErrProvinceNotFound {
			return jsonErr(c, http.StatusNotFound, "province not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "list cities failed")
	}
	return jsonOK(c, http.StatusOK, cities)
}

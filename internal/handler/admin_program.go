package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/repository"
)

// ProgramAdminHandler carries the admin-side program catalog operations.
type ProgramAdminHandler struct {
	Programs *repository.ProgramRepo
}

func NewProgramAdminHandler(p *repository.ProgramRepo) *ProgramAdminHandler {
	return &ProgramAdminHandler{Programs: p}
}

// programReq is shared by create and update.  The document columns arrive as
// arbitrary JSON and are stored as text.
type programReq struct {
	CategoryID      uint64          `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	Capacity        uint32          `json:"capacity"`
	Cost            int64           `json:"cost"`
	TrainingCost    int64           `json:"training_cost"`
	DepartureCost   int64           `json:"departure_cost"`
	InstallmentPlan string          `json:"installment_plan"`
	DurationMonths  uint32          `json:"duration_months"`
	Location        string          `json:"location"`
	Curriculum      json.RawMessage `json:"curriculum"`
	Facilities      json.RawMessage `json:"facilities"`
	Timeline        json.RawMessage `json:"timeline"`
	FeeBreakdown    json.RawMessage `json:"fee_breakdown"`
	Requirements    json.RawMessage `json:"requirements"`
}

func (req *programReq) toProgram() (*model.Program, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, "name is required"
	}
	if req.CategoryID == 0 {
		return nil, "category_id is required"
	}
	if req.Capacity == 0 {
		return nil, "capacity must be positive"
	}
	if req.Cost < 0 || req.TrainingCost < 0 || req.DepartureCost < 0 {
		return nil, "costs must not be negative"
	}
	status := model.ProgramActive
	if req.Status != "" {
		parsed, ok := model.ParseProgramStatus(req.Status)
		if !ok {
			return nil, "invalid status"
		}
		status = parsed
	}
	plan := req.InstallmentPlan
	if plan == "" {
		plan = "none"
	}
	if plan != "none" {
		if n := model.ParseInstallmentCount(plan); n < 1 || n > 6 {
			return nil, "invalid installment_plan"
		}
	}
	return &model.Program{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Status:          status,
		Capacity:        req.Capacity,
		Cost:            req.Cost,
		TrainingCost:    req.TrainingCost,
		DepartureCost:   req.DepartureCost,
		InstallmentPlan: plan,
		DurationMonths:  req.DurationMonths,
		Location:        req.Location,
		Curriculum:      string(req.Curriculum),
		Facilities:      string(req.Facilities),
		Timeline:        string(req.Timeline),
		FeeBreakdown:    string(req.FeeBreakdown),
		Requirements:    string(req.Requirements),
	}, ""
}

// Create adds a program to the catalog.
func (h *ProgramAdminHandler) Create(c echo.Context) error {
	var req programReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	p, msg := req.toProgram()
	if msg != "" {
		return jsonErr(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Programs.Create(ctx, p); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "create program failed")
	}
	return jsonOK(c, http.StatusCreated, p.Detail())
}

// Update overwrites the editable fields of a program.  Lowering capacity
// below the current participant count is refused with 409.
func (h *ProgramAdminHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid program id")
	}
	var req programReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	p, msg := req.toProgram()
	if msg != "" {
		return jsonErr(c, http.StatusBadRequest, msg)
	}
	p.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Programs.Update(ctx, p); err != nil {
		switch err {
		case repository.ErrProgramNotFound:
			return jsonErr(c, http.StatusNotFound, "program not found")
		case repository.ErrConflict:
			return jsonErr(c, http.StatusConflict, "capacity below current participants")
		}
		return jsonErr(c, http.StatusInternalServerError, "update program failed")
	}
	got, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "load program failed")
	}
	return jsonOK(c, http.StatusOK, got.Detail())
}

// Delete removes a program without registrations; 409 otherwise.
func (h *ProgramAdminHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid program id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Programs.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrProgramNotFound:
			return jsonErr(c, http.StatusNotFound, "program not found")
		case repository.ErrConflict:
			return jsonErr(c, http.StatusConflict, "program has registrations")
		}
		return jsonErr(c, http.StatusInternalServerError, "delete program failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns programs of any status for back-office views, filterable by
// ?status= and ?category_id=.
func (h *ProgramAdminHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" {
		if _, ok := model.ParseProgramStatus(status); !ok {
			return jsonErr(c, http.StatusBadRequest, "invalid status")
		}
	}
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

	programs, err := h.Programs.List(ctx, status, categoryID)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list programs failed")
	}
	out := make([]model.ProgramDetail, 0, len(programs))
	for _, p := range programs {
		out = append(out, p.Detail())
	}
	return jsonOK(c, http.StatusOK, out)
}

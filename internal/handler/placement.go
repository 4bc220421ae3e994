package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/repository"
)

// PlacementHandler owns the company-matching tracker.  Placement changes
// never touch the parent registration status.
type PlacementHandler struct {
	Placements *repository.PlacementRepo
}

func NewPlacementHandler(p *repository.PlacementRepo) *PlacementHandler {
	return &PlacementHandler{Placements: p}
}

type placementReq struct {
	Status          string  `json:"status"`
	CompanyName     string  `json:"company_name"`
	Position        string  `json:"position"`
	Department      string  `json:"department"`
	PlacementDate   *string `json:"placement_date"` // RFC 3339 or YYYY-MM-DD
	SupervisorName  string  `json:"supervisor_name"`
	SupervisorPhone string  `json:"supervisor_phone"`
	Notes           string  `json:"notes"`
}

func (req *placementReq) validate() (model.PlacementStage, *time.Time, string) {
	stage, ok := model.ParsePlacementStage(req.Status)
	if !ok {
		return "", nil, "invalid status"
	}
	var placedAt *time.Time
	if req.PlacementDate != nil && *req.PlacementDate != "" {
		t, err := time.Parse(time.RFC3339, *req.PlacementDate)
		if err != nil {
			t, err = time.Parse("2006-01-02", *req.PlacementDate)
		}
		if err != nil {
			return "", nil, "invalid placement_date"
		}
		placedAt = &t
	}
	return stage, placedAt, ""
}

// Get returns the placement record of a registration.
func (h *PlacementHandler) Get(c echo.Context) error {
	regID, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pl, err := h.Placements.GetByRegistrationID(ctx, regID)
	if err != nil {
		if err == repository.ErrPlacementNotFound {
			return jsonErr(c, http.StatusNotFound, "placement status not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load placement failed")
	}
	return jsonOK(c, http.StatusOK, pl)
}

// AdminUpdate records the placement outcome for one registration.
func (h *PlacementHandler) AdminUpdate(c echo.Context) error {
	regID, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}
	var req placementReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	stage, placedAt, msg := req.validate()
	if msg != "" {
		return jsonErr(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pl, err := h.apply(ctx, regID, stage, placedAt, &req)
	if err != nil {
		if err == repository.ErrPlacementNotFound {
			return jsonErr(c, http.StatusNotFound, "placement status not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "update placement failed")
	}
	return jsonOK(c, http.StatusOK, pl)
}

func (h *PlacementHandler) apply(ctx context.Context, regID uint64, stage model.PlacementStage, placedAt *time.Time, req *placementReq) (*model.PlacementStatus, error) {
	pl, err := h.Placements.GetByRegistrationID(ctx, regID)
	if err != nil {
		return nil, err
	}
	pl.Status = stage
	if req.CompanyName != "" {
		pl.CompanyName = req.CompanyName
	}
	if req.Position != "" {
		pl.Position = req.Position
	}
	if req.Department != "" {
		pl.Department = req.Department
	}
	if placedAt != nil {
		pl.PlacementDate = placedAt
	}
	if req.SupervisorName != "" {
		pl.SupervisorName = req.SupervisorName
	}
	if req.SupervisorPhone != "" {
		pl.SupervisorPhone = req.SupervisorPhone
	}
	if req.Notes != "" {
		pl.Notes = req.Notes
	}
	if err := h.Placements.Update(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

type bulkPlacementItem struct {
	RegistrationID uint64 `json:"registration_id"`
	placementReq
}

// AdminBulkUpdate applies placement outcomes to many registrations, one at a
// time, and reports the outcome per registration.
func (h *PlacementHandler) AdminBulkUpdate(c echo.Context) error {
	var body struct {
		Items []bulkPlacementItem `json:"items"`
	}
	if err := c.Bind(&body); err != nil || len(body.Items) == 0 {
		return jsonErr(c, http.StatusBadRequest, "items are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	results := make([]bulkResult, 0, len(body.Items))
	for i := range body.Items {
		item := &body.Items[i]
		res := bulkResult{RegistrationID: item.RegistrationID}
		stage, placedAt, msg := item.validate()
		switch {
		case item.RegistrationID == 0:
			res.Message = "registration_id is required"
		case msg != "":
			res.Message = msg
		default:
			if _, err := h.apply(ctx, item.RegistrationID, stage, placedAt, &item.placementReq); err != nil {
				if err == repository.ErrPlacementNotFound {
					res.Message = "placement status not found"
				} else {
					res.Message = "update failed"
				}
			} else {
				res.Success = true
			}
		}
		results = append(results, res)
	}
	return jsonOK(c, http.StatusOK, results)
}

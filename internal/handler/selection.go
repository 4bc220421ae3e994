package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/repository"
)

// SelectionHandler owns the evaluation tracker.  Every stage update cascades
// onto the parent registration in the same transaction: a final pass accepts
// it, a final fail rejects it, anything in between keeps it under review.
type SelectionHandler struct {
	Selections *repository.SelectionRepo
	Regs       *repository.RegistrationRepo
}

func NewSelectionHandler(s *repository.SelectionRepo, r *repository.RegistrationRepo) *SelectionHandler {
	return &SelectionHandler{Selections: s, Regs: r}
}

type selectionReq struct {
	Status         string   `json:"status"`
	TestScore      *float64 `json:"test_score"`
	InterviewScore *float64 `json:"interview_score"`
	FinalScore     *float64 `json:"final_score"`
	Notes          string   `json:"notes"`
}

func (req *selectionReq) validate() (model.SelectionStage, string) {
	stage, ok := model.ParseSelectionStage(req.Status)
	if !ok {
		return "", "invalid status"
	}
	for _, s := range []*float64{req.TestScore, req.InterviewScore, req.FinalScore} {
		if s != nil && (*s < 0 || *s > 100) {
			return "", "scores must be between 0 and 100"
		}
	}
	return stage, ""
}

// Get returns the selection record of a registration.  Participants read
// their own via the registration detail; this endpoint serves admins.
func (h *SelectionHandler) Get(c echo.Context) error {
	regID, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sel, err := h.Selections.GetByRegistrationID(ctx, regID)
	if err != nil {
		if err == repository.ErrSelectionNotFound {
			return jsonErr(c, http.StatusNotFound, "selection status not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load selection failed")
	}
	return jsonOK(c, http.StatusOK, sel)
}

// AdminUpdate records an evaluation for one registration.
func (h *SelectionHandler) AdminUpdate(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	regID, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}
	var req selectionReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	stage, msg := req.validate()
	if msg != "" {
		return jsonErr(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sel, err := h.apply(ctx, adminID, regID, stage, &req)
	if err != nil {
		switch err {
		case repository.ErrSelectionNotFound, repository.ErrRegistrationNotFound:
			return jsonErr(c, http.StatusNotFound, "selection status not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "update selection failed")
	}
	return jsonOK(c, http.StatusOK, echo.Map{
		"selection":           sel,
		"registration_status": stage.RegistrationStatus(),
	})
}

// apply performs one evaluation update with its cascade in a single
// transaction and returns the persisted selection row.
func (h *SelectionHandler) apply(ctx context.Context, adminID, regID uint64, stage model.SelectionStage, req *selectionReq) (*model.SelectionStatus, error) {
	tx, err := h.Selections.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sel, err := h.Selections.GetByRegistrationIDTx(ctx, tx, regID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sel.Status = stage
	if req.TestScore != nil {
		sel.TestScore = req.TestScore
	}
	if req.InterviewScore != nil {
		sel.InterviewScore = req.InterviewScore
	}
	if derived := model.DeriveFinalScore(sel.TestScore, sel.InterviewScore, req.FinalScore); derived != nil {
		sel.FinalScore = derived
	}
	if req.Notes != "" {
		sel.Notes = req.Notes
	}
	sel.EvaluatedBy = &adminID
	sel.EvaluatedAt = &now

	if err := h.Selections.UpdateTx(ctx, tx, sel); err != nil {
		return nil, err
	}
	if err := h.Regs.UpdateStatusTx(ctx, tx, regID, stage.RegistrationStatus()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return sel, nil
}

type bulkSelectionItem struct {
	RegistrationID uint64 `json:"registration_id"`
	selectionReq
}

type bulkResult struct {
	RegistrationID uint64 `json:"registration_id"`
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
}

// AdminBulkUpdate applies evaluations to many registrations.  Each item runs
// in its own transaction; one bad item never rolls back the others, and the
// response reports the outcome per registration.
func (h *SelectionHandler) AdminBulkUpdate(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	var body struct {
		Items []bulkSelectionItem `json:"items"`
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
		stage, msg := item.validate()
		switch {
		case item.RegistrationID == 0:
			res.Message = "registration_id is required"
		case msg != "":
			res.Message = msg
		default:
			if _, err := h.apply(ctx, adminID, item.RegistrationID, stage, &item.selectionReq); err != nil {
				switch err {
				case repository.ErrSelectionNotFound, repository.ErrRegistrationNotFound:
					res.Message = "selection status not found"
				default:
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

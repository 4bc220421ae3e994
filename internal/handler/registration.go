package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/queue"
	"github.com/iliyamo/internship-registration/internal/repository"
	queue_publisher "github.com/iliyamo/internship-registration/internal/service"
	"github.com/iliyamo/internship-registration/internal/utils"
)

// RegistrationHandler owns the registration lifecycle.  Creating a
// registration writes five rows in one transaction: the registration itself,
// its initial payment, the selection and placement trackers, and the
// participant counter bump on the program.
type RegistrationHandler struct {
	Users      *repository.UserRepo
	Programs   *repository.ProgramRepo
	Regs       *repository.RegistrationRepo
	Payments   *repository.PaymentRepo
	Selections *repository.SelectionRepo
	Placements *repository.PlacementRepo
}

func NewRegistrationHandler(
	u *repository.UserRepo,
	p *repository.ProgramRepo,
	reg *repository.RegistrationRepo,
	pay *repository.PaymentRepo,
	sel *repository.SelectionRepo,
	pl *repository.PlacementRepo,
) *RegistrationHandler {
	return &RegistrationHandler{Users: u, Programs: p, Regs: reg, Payments: pay, Selections: sel, Placements: pl}
}

type createRegistrationReq struct {
	ProgramID           uint64 `json:"program_id"`
	ApplicationLetter   string `json:"application_letter"`
	PlacementPreference string `json:"placement_preference"`
}

// Create registers the authenticated participant for a program.
//
// Checks run in a fixed order so clients get stable error codes: user exists,
// program exists and is active, capacity free, no prior registration for the
// same (user, program) pair.  Then one transaction inserts the registration
// (pending), the payment billing the program cost due in 7 days, the
// selection row (menunggu), the placement row (proses), and bumps
// current_participants under the row lock taken on the program.  The
// capacity bound is re-asserted by the guarded UPDATE, so two racing
// registrations can never overshoot it.  A registration.created event is
// published after commit, best effort.
func (h *RegistrationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}

	var req createRegistrationReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProgramID == 0 {
		return jsonErr(c, http.StatusBadRequest, "program_id is required")
	}
	req.ApplicationLetter = strings.TrimSpace(req.ApplicationLetter)
	req.PlacementPreference = strings.TrimSpace(req.PlacementPreference)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Ordered pre-checks outside the transaction.
	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return jsonErr(c, http.StatusNotFound, "user not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load user failed")
	}
	program, err := h.Programs.GetByID(ctx, req.ProgramID)
	if err != nil {
		if err == repository.ErrProgramNotFound {
			return jsonErr(c, http.StatusNotFound, "program not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load program failed")
	}
	if program.Status != model.ProgramActive {
		return jsonErr(c, http.StatusNotFound, "program not found")
	}
	if !program.HasCapacity() {
		return jsonErr(c, http.StatusConflict, "program is full")
	}
	exists, err := h.Regs.ExistsByUserAndProgram(ctx, uid, req.ProgramID)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "query failed")
	}
	if exists {
		return jsonErr(c, http.StatusConflict, "already registered for this program")
	}

	now := time.Now().UTC()
	code, err := utils.NewRegistrationCode(now)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "generate code failed")
	}
	invoice, err := utils.NewInvoiceNumber(now)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "generate invoice failed")
	}

	tx, err := h.Regs.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "begin tx failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the program row; the pre-checks were advisory only.
	locked, err := h.Programs.GetActiveForUpdateTx(ctx, tx, req.ProgramID)
	if err != nil {
		if err == repository.ErrProgramNotFound {
			return jsonErr(c, http.StatusNotFound, "program not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "lock program failed")
	}
	if !locked.HasCapacity() {
		return jsonErr(c, http.StatusConflict, "program is full")
	}

	reg := &model.Registration{
		Code:                code,
		UserID:              uid,
		ProgramID:           req.ProgramID,
		ApplicationLetter:   req.ApplicationLetter,
		PlacementPreference: req.PlacementPreference,
		Status:              model.RegistrationPending,
	}
	if err := h.Regs.CreateTx(ctx, tx, reg); err != nil {
		if err == repository.ErrDuplicateRegistration {
			return jsonErr(c, http.StatusConflict, "already registered for this program")
		}
		return jsonErr(c, http.StatusInternalServerError, "create registration failed")
	}

	due := now.AddDate(0, 0, 7)
	payment := &model.Payment{
		RegistrationID: reg.ID,
		InvoiceNumber:  invoice,
		Amount:         locked.Cost,
		AmountPaid:     0,
		Status:         model.PaymentPending,
		DueDate:        &due,
	}
	if err := h.Payments.CreateTx(ctx, tx, payment); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "create payment failed")
	}
	if err := h.Selections.CreateTx(ctx, tx, reg.ID); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "create selection failed")
	}
	if err := h.Placements.CreateTx(ctx, tx, reg.ID); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "create placement failed")
	}
	if err := h.Programs.IncrementParticipantsTx(ctx, tx, req.ProgramID); err != nil {
		if err == repository.ErrCapacityFull {
			return jsonErr(c, http.StatusConflict, "program is full")
		}
		return jsonErr(c, http.StatusInternalServerError, "update program failed")
	}

	if err := tx.Commit(); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "commit failed")
	}
	committed = true

	// Best-effort event after commit; a broker outage never fails the request.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishRegistrationCreated(pubCtx, queue.RegistrationCreatedEvent{
			RegistrationID:   reg.ID,
			RegistrationCode: reg.Code,
			UserID:           uid,
			ParticipantName:  user.FullName,
			ProgramID:        locked.ID,
			ProgramName:      locked.Name,
			InvoiceNumber:    payment.InvoiceNumber,
			Amount:           payment.Amount,
			DueDate:          due.Format(time.RFC3339),
			CreatedAt:        now.Format(time.RFC3339),
		})
	}()

	return jsonOK(c, http.StatusCreated, echo.Map{
		"registration_id": reg.ID,
		"code":            reg.Code,
		"status":          reg.Status,
		"invoice_number":  payment.InvoiceNumber,
		"amount":          payment.Amount,
		"due_date":        due.Format(time.RFC3339),
	})
}

// ListMine returns the authenticated participant's registrations with the
// status of their payment, selection and placement trackers.
func (h *RegistrationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	regs, err := h.Regs.ListByUser(ctx, uid)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list registrations failed")
	}
	return jsonOK(c, http.StatusOK, regs)
}

// Get returns one registration.  Participants can only read their own;
// admins can read any.
func (h *RegistrationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reg, err := h.Regs.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRegistrationNotFound {
			return jsonErr(c, http.StatusNotFound, "registration not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load registration failed")
	}
	if role, _ := c.Get("role").(string); role != model.RoleAdmin && reg.UserID != uid {
		return jsonErr(c, http.StatusForbidden, "forbidden")
	}
	return jsonOK(c, http.StatusOK, reg)
}

// AdminList returns registrations across all participants, filterable by
// ?program_id= and ?status=.
func (h *RegistrationHandler) AdminList(c echo.Context) error {
	var programID uint64
	if raw := c.QueryParam("program_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return jsonErr(c, http.StatusBadRequest, "invalid program_id")
		}
		programID = id
	}
	status := c.QueryParam("status")
	if status != "" {
		if _, ok := model.ParseRegistrationStatus(status); !ok {
			return jsonErr(c, http.StatusBadRequest, "invalid status")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	regs, err := h.Regs.List(ctx, programID, status)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list registrations failed")
	}
	return jsonOK(c, http.StatusOK, regs)
}

type statusReq struct {
	Status string `json:"status"`
}

// AdminUpdateStatus sets the registration status directly, bypassing the
// selection cascade.  Kept for back-office corrections; tracker updates are
// the normal path.
func (h *RegistrationHandler) AdminUpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	status, ok := model.ParseRegistrationStatus(req.Status)
	if !ok {
		return jsonErr(c, http.StatusBadRequest, "invalid status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Regs.UpdateStatus(ctx, id, status); err != nil {
		if err == repository.ErrRegistrationNotFound {
			return jsonErr(c, http.StatusNotFound, "registration not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "update status failed")
	}
	return jsonOK(c, http.StatusOK, echo.Map{"registration_id": id, "status": status})
}

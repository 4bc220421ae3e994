package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/internship-registration/internal/config"
	"github.com/iliyamo/internship-registration/internal/model"
	"github.com/iliyamo/internship-registration/internal/queue"
	"github.com/iliyamo/internship-registration/internal/repository"
	queue_publisher "github.com/iliyamo/internship-registration/internal/service"
	"github.com/iliyamo/internship-registration/internal/utils"
)

// PaymentHandler owns the payment ledger: proof uploads by participants,
// verification and manual entries by admins, and the read-only installment
// projection.  Every status-changing mutation appends one row to the
// append-only payment_history table inside the same transaction.
type PaymentHandler struct {
	Cfg      config.Config
	Payments *repository.PaymentRepo
	Regs     *repository.RegistrationRepo
}

func NewPaymentHandler(cfg config.Config, p *repository.PaymentRepo, r *repository.RegistrationRepo) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Payments: p, Regs: r}
}

// ListMine returns the authenticated participant's payments.
func (h *PaymentHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.Payments.ListByUser(ctx, uid)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list payments failed")
	}
	return jsonOK(c, http.StatusOK, payments)
}

// Get returns one payment.  Participants only see their own.
func (h *PaymentHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return err
	}
	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load payment failed")
	}
	return jsonOK(c, http.StatusOK, p)
}

// authorize checks that the caller may read or mutate the payment: admins
// always may, participants only when they own the underlying registration.
// It writes the error response itself and returns it for the caller to
// propagate.
func (h *PaymentHandler) authorize(ctx context.Context, c echo.Context, paymentID, uid uint64) error {
	if role, _ := c.Get("role").(string); role == model.RoleAdmin {
		return nil
	}
	owner, err := h.Payments.OwnerUserID(ctx, paymentID)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "query failed")
	}
	if owner != uid {
		return jsonErr(c, http.StatusForbidden, "forbidden")
	}
	return nil
}

// allowed proof upload extensions, keyed lowercase.
var proofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// UploadProof accepts a multipart "proof" file, stores it under the upload
// directory with a random name, and re-marks the payment pending so an admin
// verifies it.  When the status actually changed (an overdue payment, for
// example) the transition is logged to payment_history.
func (h *PaymentHandler) UploadProof(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return err
	}

	fh, err := c.FormFile("proof")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "proof file is required")
	}
	if fh.Size > h.Cfg.MaxUploadBytes {
		return jsonErr(c, http.StatusRequestEntityTooLarge, "proof file too large")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !proofExtensions[ext] {
		return jsonErr(c, http.StatusBadRequest, "proof must be a jpg, png or pdf file")
	}

	src, err := fh.Open()
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "read upload failed")
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "store upload failed")
	}
	name := uuid.NewString() + ext
	path := filepath.Join(h.Cfg.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "store upload failed")
	}
	if _, err := io.Copy(dst, io.LimitReader(src, h.Cfg.MaxUploadBytes)); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return jsonErr(c, http.StatusInternalServerError, "store upload failed")
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return jsonErr(c, http.StatusInternalServerError, "store upload failed")
	}

	tx, err := h.Payments.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "begin tx failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
			_ = os.Remove(path)
		}
	}()

	p, err := h.Payments.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "lock payment failed")
	}
	if err := h.Payments.AttachProofTx(ctx, tx, id, name); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "attach proof failed")
	}
	if p.Status != model.PaymentPending {
		hist := &model.PaymentHistory{
			PaymentID: id,
			OldStatus: p.Status,
			NewStatus: model.PaymentPending,
			ChangedBy: uid,
			Note:      "proof uploaded",
		}
		if err := h.Payments.AppendHistoryTx(ctx, tx, hist); err != nil {
			return jsonErr(c, http.StatusInternalServerError, "record history failed")
		}
	}
	if err := tx.Commit(); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "commit failed")
	}
	committed = true

	return jsonOK(c, http.StatusOK, echo.Map{
		"payment_id": id,
		"proof_file": name,
		"status":     model.PaymentPending,
	})
}

// InstallmentPlan projects the remaining training cost into the program's
// installment scheme.  Read-only; nothing is persisted.
func (h *PaymentHandler) InstallmentPlan(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return err
	}
	ic, err := h.Payments.GetInstallmentContext(ctx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load payment failed")
	}
	plan := model.BuildInstallmentPlan(ic.Plan, ic.TrainingCost, ic.AmountPaid, time.Now().UTC())
	return jsonOK(c, http.StatusOK, plan)
}

// History returns the append-only status log of a payment, oldest first.
func (h *PaymentHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authorize(ctx, c, id, uid); err != nil {
		return err
	}
	history, err := h.Payments.ListHistory(ctx, id)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list history failed")
	}
	return jsonOK(c, http.StatusOK, history)
}

// AdminList returns all payments, filterable by ?status=.
func (h *PaymentHandler) AdminList(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" {
		if _, ok := model.ParsePaymentStatus(status); !ok {
			return jsonErr(c, http.StatusBadRequest, "invalid status")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.Payments.List(ctx, status)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "list payments failed")
	}
	return jsonOK(c, http.StatusOK, payments)
}

type updatePaymentReq struct {
	Status     string `json:"status"`
	AmountPaid *int64 `json:"amount_paid"`
	Notes      string `json:"notes"`
}

// AdminUpdateStatus verifies or re-stages a payment.  The payment row is
// locked, the transition applied and the history row appended in one
// transaction.  Moving to paid settles the full amount unless amount_paid
// says otherwise, stamps the verifier, and assigns a receipt number if the
// payment never had one; an existing receipt number is kept.  A transition
// to paid publishes a payment.verified event after commit.
func (h *PaymentHandler) AdminUpdateStatus(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	return h.updateStatus(c, adminID, id, req)
}

// AdminUpdateByRegistration applies the same status update addressed by
// registration id instead of payment id, targeting the payment opened at
// registration time.
func (h *PaymentHandler) AdminUpdateByRegistration(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	regID, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid registration id")
	}
	var req updatePaymentReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Payments.FirstByRegistrationID(ctx, regID)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "load payment failed")
	}
	return h.updateStatus(c, adminID, p.ID, req)
}

func (h *PaymentHandler) updateStatus(c echo.Context, adminID, id uint64, req updatePaymentReq) error {
	status, ok := model.ParsePaymentStatus(req.Status)
	if !ok {
		return jsonErr(c, http.StatusBadRequest, "invalid status")
	}
	if req.AmountPaid != nil && *req.AmountPaid < 0 {
		return jsonErr(c, http.StatusBadRequest, "amount_paid must not be negative")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Payments.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "begin tx failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := h.Payments.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrPaymentNotFound {
			return jsonErr(c, http.StatusNotFound, "payment not found")
		}
		return jsonErr(c, http.StatusInternalServerError, "lock payment failed")
	}

	oldStatus := p.Status
	now := time.Now().UTC()

	amountPaid := p.AmountPaid
	if req.AmountPaid != nil {
		amountPaid = *req.AmountPaid
	} else if status == model.PaymentPaid {
		amountPaid = p.Amount // full settlement by default
	}
	if amountPaid > p.Amount {
		return jsonErr(c, http.StatusBadRequest, "amount_paid exceeds billed amount")
	}

	p.Status = status
	p.AmountPaid = amountPaid
	if req.Notes != "" {
		p.Notes = req.Notes
	}
	if status == model.PaymentPaid || status.IsInstallment() {
		p.VerifiedBy = &adminID
		p.VerifiedAt = &now
		if p.PaymentDate == nil {
			p.PaymentDate = &now
		}
	}
	if status == model.PaymentPaid && p.ReceiptNumber == nil {
		receipt, err := utils.NewReceiptNumber(now)
		if err != nil {
			return jsonErr(c, http.StatusInternalServerError, "generate receipt failed")
		}
		p.ReceiptNumber = &receipt
	}

	if err := h.Payments.UpdateStatusTx(ctx, tx, p); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "update payment failed")
	}
	hist := &model.PaymentHistory{
		PaymentID: p.ID,
		OldStatus: oldStatus,
		NewStatus: status,
		Amount:    amountPaid,
		ChangedBy: adminID,
		Note:      req.Notes,
	}
	if err := h.Payments.AppendHistoryTx(ctx, tx, hist); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "record history failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "commit failed")
	}
	committed = true

	if status == model.PaymentPaid && oldStatus != model.PaymentPaid {
		receipt := ""
		if p.ReceiptNumber != nil {
			receipt = *p.ReceiptNumber
		}
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pubCancel()
			_ = queue_publisher.PublishPaymentVerified(pubCtx, queue.PaymentVerifiedEvent{
				PaymentID:      p.ID,
				RegistrationID: p.RegistrationID,
				InvoiceNumber:  p.InvoiceNumber,
				ReceiptNumber:  receipt,
				Amount:         p.Amount,
				AmountPaid:     p.AmountPaid,
				VerifiedBy:     adminID,
				VerifiedAt:     now.Format(time.RFC3339),
			})
		}()
	}

	return jsonOK(c, http.StatusOK, p)
}

type manualPaymentReq struct {
	RegistrationID uint64 `json:"registration_id"`
	Amount         int64  `json:"amount"`
	AmountPaid     int64  `json:"amount_paid"`
	Status         string `json:"status"`
	PaymentMethod  string `json:"payment_method"`
	BankName       string `json:"bank_name"`
	AccountNumber  string `json:"account_number"`
	Notes          string `json:"notes"`
}

// AdminCreateManual records a payment made outside the upload flow (bank
// counter, cash).  Amount paid may never exceed the billed amount.  When no
// status is supplied it is derived from the amounts, and rows recording
// actual money are stamped verified and receive a receipt number
// immediately.
func (h *PaymentHandler) AdminCreateManual(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return jsonErr(c, http.StatusUnauthorized, "unauthorized")
	}
	var req manualPaymentReq
	if err := c.Bind(&req); err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.RegistrationID == 0 {
		return jsonErr(c, http.StatusBadRequest, "registration_id is required")
	}
	if req.Amount <= 0 {
		return jsonErr(c, http.StatusBadRequest, "amount must be positive")
	}
	if req.AmountPaid < 0 || req.AmountPaid > req.Amount {
		return jsonErr(c, http.StatusBadRequest, "amount_paid must be between 0 and amount")
	}
	status := model.DeriveManualPaymentStatus(req.Amount, req.AmountPaid)
	if req.Status != "" {
		parsed, ok := model.ParsePaymentStatus(req.Status)
		if !ok {
			return jsonErr(c, http.StatusBadRequest, "invalid status")
		}
		status = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	invoice, err := utils.NewManualInvoiceNumber(now, req.AmountPaid)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "generate invoice failed")
	}

	p := &model.Payment{
		RegistrationID: req.RegistrationID,
		InvoiceNumber:  invoice,
		Amount:         req.Amount,
		AmountPaid:     req.AmountPaid,
		Status:         status,
		PaymentMethod:  req.PaymentMethod,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		Notes:          req.Notes,
	}
	if req.AmountPaid > 0 {
		receipt, err := utils.NewReceiptNumber(now)
		if err != nil {
			return jsonErr(c, http.StatusInternalServerError, "generate receipt failed")
		}
		p.ReceiptNumber = &receipt
		p.VerifiedBy = &adminID
		p.VerifiedAt = &now
		p.PaymentDate = &now
	}

	tx, err := h.Payments.DB().BeginTx(ctx, nil)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "begin tx failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	exists, err := h.Regs.ExistsTx(ctx, tx, req.RegistrationID)
	if err != nil {
		return jsonErr(c, http.StatusInternalServerError, "query failed")
	}
	if !exists {
		return jsonErr(c, http.StatusNotFound, "registration not found")
	}
	if err := h.Payments.CreateManualTx(ctx, tx, p); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "create payment failed")
	}
	hist := &model.PaymentHistory{
		PaymentID: p.ID,
		OldStatus: model.PaymentPending,
		NewStatus: status,
		Amount:    req.AmountPaid,
		ChangedBy: adminID,
		Note:      "manual payment recorded",
	}
	if err := h.Payments.AppendHistoryTx(ctx, tx, hist); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "record history failed")
	}
	if err := tx.Commit(); err != nil {
		return jsonErr(c, http.StatusInternalServerError, "commit failed")
	}
	committed = true

	return jsonOK(c, http.StatusCreated, p)
}

// AdminGetReceipt returns the receipt view of a settled payment for the
// document renderer.  Payments without a receipt yield 409.
func (h *PaymentHandler) AdminGetReceipt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return jsonErr(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	data, err := h.Payments.GetReceiptData(ctx, id)
	if err != nil {
		switch err {
		case repository.ErrPaymentNotFound:
			return jsonErr(c, http.StatusNotFound, "payment not found")
		case repository.ErrConflict:
			return jsonErr(c, http.StatusConflict, "payment has no receipt yet")
		}
		return jsonErr(c, http.StatusInternalServerError, "load receipt failed")
	}
	return jsonOK(c, http.StatusOK, data)
}

package model

import (
	"strconv"
	"strings"
	"time"
)

// Installment is one slice of an installment plan projection.
type Installment struct {
	Number  int       `json:"number"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

// InstallmentPlan is the read-only projection returned by the
// installment-plan endpoint.  Nothing here is persisted.
type InstallmentPlan struct {
	Total        int64         `json:"total"`
	Paid         int64         `json:"paid"`
	Remaining    int64         `json:"remaining"`
	Installments []Installment `json:"installments"`
}

// ParseInstallmentCount extracts N from a program descriptor of the form
// "<N>_installments".  It returns 0 for "none", the empty string, or any
// descriptor that does not follow the form.
func ParseInstallmentCount(plan string) int {
	s := strings.TrimSpace(plan)
	if s == "" || s == "none" {
		return 0
	}
	numPart, ok := strings.CutSuffix(s, "_installments")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(numPart)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// BuildInstallmentPlan projects the remaining training cost of a payment
// into N equal installments due 30 days apart starting from now.  Each slice
// is the floor of the even split and the final slice absorbs the remainder,
// so the slices always sum to the remaining amount and no slice can go
// negative however small the remainder is.  A "none" plan, an unknown
// descriptor or a fully settled payment yields an empty installments list.
func BuildInstallmentPlan(plan string, trainingCost, amountPaid int64, now time.Time) InstallmentPlan {
	remaining := trainingCost - amountPaid
	if remaining < 0 {
		remaining = 0
	}
	out := InstallmentPlan{
		Total:        trainingCost,
		Paid:         amountPaid,
		Remaining:    remaining,
		Installments: []Installment{},
	}
	n := ParseInstallmentCount(plan)
	if n == 0 || remaining == 0 {
		return out
	}
	per := remaining / int64(n) // floored even split; last slice takes the rest
	for i := 1; i <= n; i++ {
		amt := per
		if i == n {
			amt = remaining - per*int64(n-1)
		}
		out.Installments = append(out.Installments, Installment{
			Number:  i,
			Amount:  amt,
			DueDate: now.AddDate(0, 0, 30*i),
		})
	}
	return out
}

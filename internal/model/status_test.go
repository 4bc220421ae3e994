package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegistrationStatus(t *testing.T) {
	for _, valid := range []string{"pending", "under_review", "accepted", "rejected"} {
		got, ok := ParseRegistrationStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, RegistrationStatus(valid), got)
	}
	for _, invalid := range []string{"", "PENDING", "approved", "menunggu"} {
		_, ok := ParseRegistrationStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	valid := []string{
		"pending", "paid", "overdue", "cancelled",
		"installment_1", "installment_2", "installment_3",
		"installment_4", "installment_5", "installment_6",
	}
	for _, s := range valid {
		_, ok := ParsePaymentStatus(s)
		assert.True(t, ok, s)
	}
	for _, invalid := range []string{"", "installment_0", "installment_7", "Paid", "settled"} {
		_, ok := ParsePaymentStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestPaymentStatusIsInstallment(t *testing.T) {
	assert.True(t, PaymentInstallment1.IsInstallment())
	assert.True(t, PaymentInstallment6.IsInstallment())
	assert.False(t, PaymentPending.IsInstallment())
	assert.False(t, PaymentPaid.IsInstallment())
	assert.False(t, PaymentOverdue.IsInstallment())
}

func TestDeriveManualPaymentStatus(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		amountPaid int64
		want       PaymentStatus
	}{
		{"nothing paid", 1_000_000, 0, PaymentPending},
		{"partial opens installments", 1_000_000, 400_000, PaymentInstallment1},
		{"exactly covered", 1_000_000, 1_000_000, PaymentPaid},
		{"zero amount never paid", 0, 0, PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveManualPaymentStatus(tt.amount, tt.amountPaid))
		})
	}
}

func TestSelectionCascade(t *testing.T) {
	tests := []struct {
		stage SelectionStage
		want  RegistrationStatus
	}{
		{SelectionWaiting, RegistrationUnderReview},
		{SelectionStage1, RegistrationUnderReview},
		{SelectionStage2, RegistrationUnderReview},
		{SelectionPassed, RegistrationAccepted},
		{SelectionFailed, RegistrationRejected},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stage.RegistrationStatus())
		})
	}
}

func TestParseSelectionStage(t *testing.T) {
	for _, valid := range []string{"menunggu", "lolos_tahap_1", "lolos_tahap_2", "lolos", "tidak_lolos"} {
		_, ok := ParseSelectionStage(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseSelectionStage("lolos_tahap_3")
	assert.False(t, ok)
}

func TestParsePlacementStage(t *testing.T) {
	for _, valid := range []string{"proses", "lolos", "ditempatkan", "gagal"} {
		_, ok := ParsePlacementStage(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParsePlacementStage("selesai")
	assert.False(t, ok)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstallmentCount(t *testing.T) {
	tests := []struct {
		plan string
		want int
	}{
		{"none", 0},
		{"", 0},
		{"3_installments", 3},
		{"6_installments", 6},
		{"1_installments", 1},
		{"0_installments", 0},
		{"-2_installments", 0},
		{"monthly", 0},
		{"three_installments", 0},
	}
	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInstallmentCount(tt.plan))
		})
	}
}

func TestBuildInstallmentPlanEvenSplit(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	plan := BuildInstallmentPlan("3_installments", 9_000_000, 0, now)

	assert.Equal(t, int64(9_000_000), plan.Total)
	assert.Equal(t, int64(0), plan.Paid)
	assert.Equal(t, int64(9_000_000), plan.Remaining)
	require.Len(t, plan.Installments, 3)
	for i, inst := range plan.Installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, int64(3_000_000), inst.Amount)
		assert.Equal(t, now.AddDate(0, 0, 30*(i+1)), inst.DueDate)
	}
}

func TestBuildInstallmentPlanRemainderGoesLast(t *testing.T) {
	now := time.Now().UTC()
	plan := BuildInstallmentPlan("3_installments", 10_000_000, 0, now)

	require.Len(t, plan.Installments, 3)
	var sum int64
	for _, inst := range plan.Installments {
		sum += inst.Amount
	}
	assert.Equal(t, int64(10_000_000), sum)
	assert.Equal(t, int64(3_333_333), plan.Installments[0].Amount)
	assert.Equal(t, int64(3_333_333), plan.Installments[1].Amount)
	assert.Equal(t, int64(3_333_334), plan.Installments[2].Amount)
}

func TestBuildInstallmentPlanTinyRemainder(t *testing.T) {
	now := time.Now().UTC()

	// A remainder smaller than the slice count still splits cleanly: the
	// floored per-slice amount is zero and the last slice carries the rest.
	plan := BuildInstallmentPlan("6_installments", 3, 0, now)

	require.Len(t, plan.Installments, 6)
	var sum int64
	for _, inst := range plan.Installments {
		assert.GreaterOrEqual(t, inst.Amount, int64(0), "installment %d", inst.Number)
		sum += inst.Amount
	}
	assert.Equal(t, int64(3), sum)
	assert.Equal(t, int64(3), plan.Installments[5].Amount)
}

func TestBuildInstallmentPlanPartialPaid(t *testing.T) {
	now := time.Now().UTC()
	plan := BuildInstallmentPlan("2_installments", 6_000_000, 2_000_000, now)

	assert.Equal(t, int64(2_000_000), plan.Paid)
	assert.Equal(t, int64(4_000_000), plan.Remaining)
	require.Len(t, plan.Installments, 2)
	assert.Equal(t, int64(2_000_000), plan.Installments[0].Amount)
	assert.Equal(t, int64(2_000_000), plan.Installments[1].Amount)
}

func TestBuildInstallmentPlanEmptyCases(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no plan", func(t *testing.T) {
		plan := BuildInstallmentPlan("none", 5_000_000, 0, now)
		assert.Empty(t, plan.Installments)
		assert.Equal(t, int64(5_000_000), plan.Remaining)
	})
	t.Run("fully settled", func(t *testing.T) {
		plan := BuildInstallmentPlan("3_installments", 5_000_000, 5_000_000, now)
		assert.Empty(t, plan.Installments)
		assert.Equal(t, int64(0), plan.Remaining)
	})
	t.Run("overpaid clamps to zero", func(t *testing.T) {
		plan := BuildInstallmentPlan("3_installments", 5_000_000, 6_000_000, now)
		assert.Empty(t, plan.Installments)
		assert.Equal(t, int64(0), plan.Remaining)
	})
	t.Run("unknown descriptor", func(t *testing.T) {
		plan := BuildInstallmentPlan("monthly", 5_000_000, 0, now)
		assert.Empty(t, plan.Installments)
	})
}

package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

func TestNewRegistrationCode(t *testing.T) {
	code, err := NewRegistrationCode(fixedNow)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^REG-\d{6}-[A-HJ-NP-Z2-9]{3}$`), code)
}

func TestNewInvoiceNumber(t *testing.T) {
	inv, err := NewInvoiceNumber(fixedNow)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV/2026/08/\d{6}[A-HJ-NP-Z2-9]{4}$`), inv)
}

func TestNewReceiptNumber(t *testing.T) {
	rcp, err := NewReceiptNumber(fixedNow)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^RCP/2026/08/\d{6}[A-HJ-NP-Z2-9]{4}$`), rcp)
}

func TestNewManualInvoiceNumber(t *testing.T) {
	t.Run("billing only", func(t *testing.T) {
		inv, err := NewManualInvoiceNumber(fixedNow, 0)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}[A-HJ-NP-Z2-9]{4}$`), inv)
	})
	t.Run("money recorded", func(t *testing.T) {
		inv, err := NewManualInvoiceNumber(fixedNow, 500_000)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^PAY-MANUAL-\d{6}[A-HJ-NP-Z2-9]{4}$`), inv)
	})
}

func TestCodesAreReasonablyUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		inv, err := NewInvoiceNumber(fixedNow)
		require.NoError(t, err)
		assert.False(t, seen[inv], "duplicate invoice %s", inv)
		seen[inv] = true
	}
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramHasCapacity(t *testing.T) {
	p := Program{Capacity: 2, CurrentParticipants: 0}
	assert.True(t, p.HasCapacity())
	p.CurrentParticipants = 1
	assert.True(t, p.HasCapacity())
	p.CurrentParticipants = 2
	assert.False(t, p.HasCapacity())
}

func TestProgramDetailDecodesJSONColumns(t *testing.T) {
	p := Program{
		Curriculum:   `["week 1","week 2"]`,
		Facilities:   `{"dorm":true}`,
		Timeline:     "not json at all",
		FeeBreakdown: "",
		Requirements: `null`,
	}
	d := p.Detail()

	assert.Equal(t, json.RawMessage(`["week 1","week 2"]`), d.Curriculum)
	assert.Equal(t, json.RawMessage(`{"dorm":true}`), d.Facilities)
	// Malformed and empty columns decode to null instead of failing.
	assert.Equal(t, json.RawMessage("null"), d.Timeline)
	assert.Equal(t, json.RawMessage("null"), d.FeeBreakdown)
	assert.Equal(t, json.RawMessage("null"), d.Requirements)
}

func TestPaymentOutstanding(t *testing.T) {
	p := Payment{Amount: 1_000_000, AmountPaid: 250_000}
	assert.Equal(t, int64(750_000), p.Outstanding())
	p.AmountPaid = 1_000_000
	assert.Equal(t, int64(0), p.Outstanding())
	p.AmountPaid = 1_500_000
	assert.Equal(t, int64(0), p.Outstanding())
}

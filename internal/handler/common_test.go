package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/internship-registration/internal/model"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(7), 7, false},
		{"float64 from jwt claims", float64(42), 42, false},
		{"int", int(3), 3, false},
		{"numeric string", "19", 19, false},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext(t)
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, err := getUserID(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectionReqValidate(t *testing.T) {
	t.Run("valid stage with scores", func(t *testing.T) {
		score := 85.0
		req := selectionReq{Status: "lolos_tahap_1", TestScore: &score}
		stage, msg := req.validate()
		assert.Empty(t, msg)
		assert.Equal(t, model.SelectionStage1, stage)
	})
	t.Run("unknown stage", func(t *testing.T) {
		req := selectionReq{Status: "done"}
		_, msg := req.validate()
		assert.Equal(t, "invalid status", msg)
	})
	t.Run("score out of range", func(t *testing.T) {
		score := 101.0
		req := selectionReq{Status: "lolos", InterviewScore: &score}
		_, msg := req.validate()
		assert.Equal(t, "scores must be between 0 and 100", msg)
	})
}

func TestPlacementReqValidate(t *testing.T) {
	t.Run("date only form", func(t *testing.T) {
		d := "2026-09-15"
		req := placementReq{Status: "ditempatkan", PlacementDate: &d}
		stage, placedAt, msg := req.validate()
		assert.Empty(t, msg)
		assert.Equal(t, model.PlacementPlaced, stage)
		require.NotNil(t, placedAt)
		assert.Equal(t, 15, placedAt.Day())
	})
	t.Run("rfc3339 form", func(t *testing.T) {
		d := "2026-09-15T08:00:00Z"
		req := placementReq{Status: "proses", PlacementDate: &d}
		_, placedAt, msg := req.validate()
		assert.Empty(t, msg)
		require.NotNil(t, placedAt)
	})
	t.Run("bad date", func(t *testing.T) {
		d := "15/09/2026"
		req := placementReq{Status: "proses", PlacementDate: &d}
		_, _, msg := req.validate()
		assert.Equal(t, "invalid placement_date", msg)
	})
	t.Run("bad stage", func(t *testing.T) {
		req := placementReq{Status: "placed"}
		_, _, msg := req.validate()
		assert.Equal(t, "invalid status", msg)
	})
}

func TestProgramReqToProgram(t *testing.T) {
	base := func() programReq {
		return programReq{
			CategoryID:      1,
			Name:            "Culinary Internship",
			Capacity:        30,
			Cost:            12_000_000,
			InstallmentPlan: "3_installments",
		}
	}

	t.Run("defaults applied", func(t *testing.T) {
		req := base()
		req.InstallmentPlan = ""
		p, msg := req.toProgram()
		require.Empty(t, msg)
		assert.Equal(t, model.ProgramActive, p.Status)
		assert.Equal(t, "none", p.InstallmentPlan)
	})
	t.Run("invalid plan rejected", func(t *testing.T) {
		req := base()
		req.InstallmentPlan = "9_installments"
		_, msg := req.toProgram()
		assert.Equal(t, "invalid installment_plan", msg)
	})
	t.Run("missing name rejected", func(t *testing.T) {
		req := base()
		req.Name = "  "
		_, msg := req.toProgram()
		assert.Equal(t, "name is required", msg)
	})
	t.Run("zero capacity rejected", func(t *testing.T) {
		req := base()
		req.Capacity = 0
		_, msg := req.toProgram()
		assert.Equal(t, "capacity must be positive", msg)
	})
	t.Run("bad status rejected", func(t *testing.T) {
		req := base()
		req.Status = "open"
		_, msg := req.toProgram()
		assert.Equal(t, "invalid status", msg)
	})
}

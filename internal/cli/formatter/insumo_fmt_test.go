package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teuprojeto/flowrev/internal/domain"
)

func TestFormatInsumoList(t *testing.T) {
	due := testToday.AddDate(0, 0, -2)
	insumos := []*domain.Insumo{
		{
			ID:     "aaaaaaaa-1111",
			Title:  "Cover Story",
			Status: domain.StatusInProgress,
			DueDate: &due,
			Responsibles: []domain.UserRef{{ID: "u1", Name: "Ana"}},
			Tags:         []domain.Tag{{ID: "t1", Name: "urgent"}},
		},
		{ID: "bbbbbbbb-2222", Title: "Market Numbers", Status: domain.StatusApproved},
	}

	out := FormatInsumoList(insumos, testToday)
	assert.Contains(t, out, "Cover Story")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "2d late")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "#urgent")
	assert.Contains(t, out, "Approved")
	assert.Contains(t, out, "aaaaaaaa")
	assert.NotContains(t, out, "aaaaaaaa-1111", "ids are truncated")
}

func TestFormatInsumoDetail(t *testing.T) {
	submitted := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	i := &domain.Insumo{
		ID:               "cccccccc-3333",
		Title:            "Editorial",
		Status:           domain.StatusAdjustmentRequested,
		Content:          "draft body",
		Notes:            "check the figures",
		SubmittedAt:      &submitted,
		AdjustmentReason: "numbers incomplete",
		Attachments: []domain.Attachment{
			{Kind: domain.AttachmentPDF, Filename: "final.pdf", URL: "file:///final.pdf"},
		},
	}

	out := FormatInsumoDetail(i, testToday)
	assert.Contains(t, out, "Editorial")
	assert.Contains(t, out, "Adjustment Requested")
	assert.Contains(t, out, "numbers incomplete")
	assert.Contains(t, out, "draft body")
	assert.Contains(t, out, "check the figures")
	assert.Contains(t, out, "final.pdf")
	assert.Contains(t, out, "2026-04-10")
}

func TestFormatInsumoDetail_EmptyContent(t *testing.T) {
	i := &domain.Insumo{Title: "Charts", Status: domain.StatusNotStarted, Content: "   "}
	out := FormatInsumoDetail(i, testToday)
	assert.Contains(t, out, "(empty)")
}

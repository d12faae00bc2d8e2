package tui

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
)

// TestViewDeadLetterList_RendersRecords проверяет, что список отклонённых
// операций выводит имя операции, ошибку и дату отклонения.
func TestViewDeadLetterList_RendersRecords(t *testing.T) {
	m := mainLoopModel{
		tab: tabDeadLetters,
		deadLetters: []models.DeadLetterRecord{
			{
				ID:        "dl-1",
				Name:      models.OpItemsUpdate,
				LastError: "internal server error",
				FailedAt:  time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	out := m.viewDeadLetterList()

	assert.Contains(t, out, string(models.OpItemsUpdate))
	assert.Contains(t, out, "internal server error")
	assert.Contains(t, out, "31.08.2026 12:00")
}

// TestViewDeadLetterList_Empty проверяет рендер пустого списка.
func TestViewDeadLetterList_Empty(t *testing.T) {
	m := mainLoopModel{tab: tabDeadLetters}

	out := m.viewDeadLetterList()

	assert.Contains(t, out, "Отклонённых операций нет")
}

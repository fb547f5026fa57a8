package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finlogix/config"
	"finlogix/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdvice struct {
	saved []models.AdviceHistory
}

func (m *memAdvice) Create(_ context.Context, h *models.AdviceHistory) error {
	h.ID = uint(len(m.saved) + 1)
	m.saved = append(m.saved, *h)
	return nil
}

func (m *memAdvice) ListByUser(_ context.Context, userID uint, limit int) ([]models.AdviceHistory, error) {
	var out []models.AdviceHistory
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if m.saved[i].UserID == userID {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}

func TestBuildAdvicePrompt(t *testing.T) {
	note := "Lunch"
	prompt := BuildAdvicePrompt([]models.Transaction{
		{Type: "expense", Amount: decimal.RequireFromString("500.5"), Note: &note, Category: &models.Category{ID: 2, Name: "Food"}},
		{Type: "income", Amount: decimal.NewFromInt(3000)},
	})

	assert.True(t, strings.HasPrefix(prompt, "You're a smart, friendly budgeting assistant."))
	assert.Contains(t, prompt, "expense: ₹500.5 on Food - Lunch\n")
	assert.Contains(t, prompt, "income: ₹3000 on Uncategorized - No note\n")
}

func TestAdvisor_Advise(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  - Cook at home more\n"}}]}`))
	}))
	defer srv.Close()

	store := newMemStore(food)
	store.txs[1] = models.Transaction{ID: 1, UserID: 7, Type: "expense", Amount: decimal.NewFromInt(500), Timestamp: time.Now(), CategoryID: uintPtr(2)}
	history := &memAdvice{}

	advisor := NewAdvisor(config.AIConfig{BaseURL: srv.URL + "/v1/", APIKey: "test-key", Model: "gpt-4o-mini"}, store, history)
	advice, err := advisor.Advise(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "- Cook at home more", advice)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "expense: ₹500 on Food - No note")

	list, err := advisor.History(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "- Cook at home more", list[0].Advice)
}

func TestAdvisor_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	history := &memAdvice{}
	advisor := NewAdvisor(config.AIConfig{BaseURL: srv.URL, APIKey: "k"}, newMemStore(), history)
	_, err := advisor.Advise(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Empty(t, history.saved)
}

func TestAdvisor_NotConfigured(t *testing.T) {
	advisor := NewAdvisor(config.AIConfig{}, newMemStore(), &memAdvice{})
	_, err := advisor.Advise(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "advice service not configured", Message(err, ""))
}

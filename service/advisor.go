package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finlogix/config"
	"finlogix/models"
)

const advicePromptHeader = "You're a smart, friendly budgeting assistant. " +
	"Analyze the user's spending history below and provide short, actionable budgeting advice. " +
	"Respond with 5-12 concise bullet points using clear and motivating language. " +
	"Avoid over-explaining. Use emojis only at the start of each point.\n\n"

// AdviceHistoryLimit 历史记录最多返回条数
const AdviceHistoryLimit = 20

// TransactionLister 列出用户全部交易
type TransactionLister interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Transaction, error)
}

// AdviceStore 建议历史存储
type AdviceStore interface {
	Create(ctx context.Context, h *models.AdviceHistory) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.AdviceHistory, error)
}

// Advisor 基于用户交易记录生成理财建议（兼容 OpenAI 的 chat/completions 接口）
type Advisor struct {
	cfg          config.AIConfig
	transactions TransactionLister
	history      AdviceStore
	client       *http.Client
}

func NewAdvisor(cfg config.AIConfig, transactions TransactionLister, history AdviceStore) *Advisor {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Advisor{
		cfg:          cfg,
		transactions: transactions,
		history:      history,
		client:       &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// BuildAdvicePrompt 每笔交易一行："{type}: ₹{amount} on {category} - {note}"
func BuildAdvicePrompt(transactions []models.Transaction) string {
	var b strings.Builder
	b.WriteString(advicePromptHeader)
	for i := range transactions {
		t := &transactions[i]
		fmt.Fprintf(&b, "%s: ₹%s on %s - %s\n",
			t.Type,
			t.Amount.String(),
			t.CategoryNameOr("Uncategorized"),
			t.NoteOrDefault("No note"),
		)
	}
	return b.String()
}

// Advise 生成建议并保存到历史
func (a *Advisor) Advise(ctx context.Context, userID uint) (string, error) {
	if a.cfg.APIKey == "" {
		return "", unavailableError("advice service not configured")
	}

	list, err := a.transactions.ListByOwner(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}

	advice, err := a.complete(ctx, BuildAdvicePrompt(list))
	if err != nil {
		return "", err
	}

	h := &models.AdviceHistory{UserID: userID, Model: a.cfg.Model, Advice: advice}
	if err := a.history.Create(ctx, h); err != nil {
		return "", fmt.Errorf("save advice: %w", err)
	}
	return advice, nil
}

// History 用户最近的建议，新的在前
func (a *Advisor) History(ctx context.Context, userID uint) ([]models.AdviceHistory, error) {
	return a.history.ListByUser(ctx, userID, AdviceHistoryLimit)
}

func (a *Advisor) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    a.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}

	url := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求AI服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("AI服务返回错误: %d, %s", resp.StatusCode, string(b))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("解析AI响应失败: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("AI服务未返回结果")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

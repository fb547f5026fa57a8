package service

import (
	"context"
	"fmt"
	"time"

	"finlogix/models"
	"finlogix/notify"

	"github.com/shopspring/decimal"
)

// TransactionStore 账本使用的交易存储
// FindOwnedBy 同时按 ID 和归属用户查询，不可见的交易返回 nil, nil
type TransactionStore interface {
	FindOwnedBy(ctx context.Context, ownerID, id uint) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) (bool, error)
	Delete(ctx context.Context, tx *models.Transaction) error
}

// CreateTransactionInput 新增交易参数，nil 表示请求中未提供
type CreateTransactionInput struct {
	Amount     *decimal.Decimal
	Type       string
	Note       *string
	CategoryID *uint
}

// TransactionPatch 编辑交易参数，只覆盖非 nil 字段
// CategoryNull 表示请求显式传了 category_id: null，不允许清空类别
type TransactionPatch struct {
	Amount       *decimal.Decimal
	Type         *string
	Note         *string
	CategoryID   *uint
	CategoryNull bool
}

// Ledger 交易账本服务
// 所有写操作先提交，再把事件交给 Publisher；发布失败不影响请求结果
type Ledger struct {
	transactions TransactionStore
	categories   CategoryFinder
	defaults     DefaultCategoryResolver
	publisher    notify.Publisher
	now          func() time.Time
}

// NewLedger 创建账本服务，publisher 为 nil 时不推送
func NewLedger(transactions TransactionStore, categories CategoryFinder, defaults DefaultCategoryResolver, publisher notify.Publisher) *Ledger {
	if publisher == nil {
		publisher = notify.Discard{}
	}
	return &Ledger{
		transactions: transactions,
		categories:   categories,
		defaults:     defaults,
		publisher:    publisher,
		now:          time.Now,
	}
}

// WithClock 替换时钟，便于测试
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Create 新增交易
// 支出必须指定已存在的类别；收入使用默认类别，默认类别不存在时不设置类别
func (l *Ledger) Create(ctx context.Context, userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Amount == nil || in.Amount.IsZero() || in.Type == "" {
		return nil, validationError("amount and type are required")
	}
	if in.Amount.IsNegative() {
		return nil, validationError("amount must be positive")
	}
	if !models.ValidTransactionType(in.Type) {
		return nil, validationError("type must be income or expense")
	}

	var (
		cat *models.Category
		err error
	)
	if in.Type == models.TransactionExpense {
		if in.CategoryID == nil || *in.CategoryID == 0 {
			return nil, validationError("category_id is required for expenses")
		}
		cat, err = l.categories.FindByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("find category: %w", err)
		}
		if cat == nil {
			return nil, validationError("Invalid category_id")
		}
	} else {
		cat, err = l.defaults.Resolve(ctx, in.Type)
		if err != nil {
			return nil, fmt.Errorf("resolve default category: %w", err)
		}
	}

	tx := &models.Transaction{
		Amount:    *in.Amount,
		Type:      in.Type,
		Note:      in.Note,
		Timestamp: l.now().UTC(),
		UserID:    userID,
	}
	if cat != nil {
		tx.CategoryID = &cat.ID
		tx.Category = cat
	}

	if err := l.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	l.publisher.Publish(ctx, notify.Added(userID, tx.Record()))
	return tx, nil
}

// Update 部分更新交易，时间戳保持不变
func (l *Ledger) Update(ctx context.Context, userID, id uint, patch TransactionPatch) (*models.Transaction, error) {
	tx, err := l.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryNull {
		return nil, validationError("Invalid category_id")
	}
	if patch.CategoryID != nil {
		cat, err := l.categories.FindByID(ctx, *patch.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("find category: %w", err)
		}
		if cat == nil {
			return nil, validationError("Invalid category_id")
		}
		tx.CategoryID = &cat.ID
		tx.Category = cat
	}
	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return nil, validationError("amount must be positive")
		}
		tx.Amount = *patch.Amount
	}
	if patch.Type != nil {
		if !models.ValidTransactionType(*patch.Type) {
			return nil, validationError("type must be income or expense")
		}
		tx.Type = *patch.Type
	}
	if patch.Note != nil {
		tx.Note = patch.Note
	}

	found, err := l.transactions.Update(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if !found {
		// 读取之后被并发删除
		return nil, notFoundError("Transaction not found")
	}

	l.publisher.Publish(ctx, notify.Edited(userID, tx.Record()))
	return tx, nil
}

// Delete 删除交易，不级联删除语音备注
func (l *Ledger) Delete(ctx context.Context, userID, id uint) error {
	tx, err := l.findOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := l.transactions.Delete(ctx, tx); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	l.publisher.Publish(ctx, notify.Deleted(userID, tx.ID))
	return nil
}

// List 用户全部交易，最新的在前
func (l *Ledger) List(ctx context.Context, userID uint) ([]models.Transaction, error) {
	list, err := l.transactions.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// findOwned 他人的交易与不存在的交易返回同样的 NotFound，不泄露归属信息
func (l *Ledger) findOwned(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	tx, err := l.transactions.FindOwnedBy(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if tx == nil {
		return nil, notFoundError("Transaction not found")
	}
	return tx, nil
}

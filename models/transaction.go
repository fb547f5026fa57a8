package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额以 JSON 数字输出，与客户端约定一致
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	// TransactionIncome 收入
	TransactionIncome = "income"
	// TransactionExpense 支出
	TransactionExpense = "expense"
)

// ValidTransactionType 交易类型是否合法
func ValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction 交易记录模型
// Timestamp 在创建时由服务端写入，编辑时不变
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Type       string          `json:"type" gorm:"size:10;not null;index"`
	Note       *string         `json:"note" gorm:"size:255"`
	Timestamp  time.Time       `json:"timestamp" gorm:"not null;index"`
	UserID     uint            `json:"user_id" gorm:"index;not null"`
	CategoryID *uint           `json:"category_id" gorm:"index"`
	Category   *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	User       User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// CategoryRef 交易中内嵌的类别引用
type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TransactionRecord 交易的对外表示（列表接口与推送事件共用）
// 未设置类别时 category 输出为 null
type TransactionRecord struct {
	ID        uint            `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  *CategoryRef    `json:"category"`
	Note      *string         `json:"note"`
	Timestamp string          `json:"timestamp"`
}

// Record 转换为对外表示
func (t *Transaction) Record() TransactionRecord {
	rec := TransactionRecord{
		ID:        t.ID,
		Amount:    t.Amount,
		Type:      t.Type,
		Note:      t.Note,
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339),
	}
	if t.Category != nil && t.Category.ID != 0 {
		rec.Category = &CategoryRef{ID: t.Category.ID, Name: t.Category.Name}
	}
	return rec
}

// NoteOrDefault 返回备注，为空时返回 fallback
func (t *Transaction) NoteOrDefault(fallback string) string {
	if t.Note == nil || *t.Note == "" {
		return fallback
	}
	return *t.Note
}

// CategoryNameOr 返回类别名称，未设置类别时返回 fallback
func (t *Transaction) CategoryNameOr(fallback string) string {
	if t.Category == nil || t.Category.Name == "" {
		return fallback
	}
	return t.Category.Name
}

package models

import (
	"time"
)

// AdviceHistory AI 理财建议历史记录
type AdviceHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Model     string    `json:"model" gorm:"size:100;not null"`
	Advice    string    `json:"advice" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdviceHistory) TableName() string {
	return "advice_histories"
}

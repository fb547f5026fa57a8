package models

// AudioNote 交易的语音备注
// 仅保留表结构，删除交易时不级联删除
type AudioNote struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	URL           string `json:"url" gorm:"size:255;not null"`
	TransactionID uint   `json:"transaction_id" gorm:"index;not null"`
}

func (AudioNote) TableName() string {
	return "audio_notes"
}

package models

// Category 交易类别（后台维护）
// 被交易引用的类别不可删除，因此不做软删除
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

func (Category) TableName() string {
	return "categories"
}

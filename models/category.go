package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// DealCategory is the membership row between a deal and a category.
type DealCategory struct {
	DealID     uint `gorm:"primaryKey" json:"dealId"`
	CategoryID uint `gorm:"primaryKey" json:"categoryId"`
}

package models

import "time"

// Merchant is a partner profile owned by exactly one user.
type Merchant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Contact   *string   `gorm:"type:varchar(254)" json:"contact,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ContactValue returns the contact email or an empty string.
func (m Merchant) ContactValue() string {
	if m.Contact == nil {
		return ""
	}
	return *m.Contact
}

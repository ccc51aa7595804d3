package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null" json:"roleId"`
	Role         Role      `gorm:"foreignKey:RoleID" json:"role"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Username     string    `gorm:"type:varchar(150)" json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

package model

import "time"

// Tenant represents a registered tenant in idgate
type Tenant struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Domain    string    `gorm:"column:domain;uniqueIndex;not null"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

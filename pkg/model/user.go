package model

import "time"

// User represents a user-store entry within a tenant
type User struct {
	UserID      string    `gorm:"column:user_id;primaryKey"`
	TenantID    int64     `gorm:"column:tenant_id;primaryKey;autoIncrement:false"`
	Username    string    `gorm:"column:username;not null;index"`
	StoreDomain string    `gorm:"column:store_domain"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

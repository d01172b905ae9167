package model

import "time"

// Organization represents an organization owned by a tenant
type Organization struct {
	OrgID        string    `gorm:"column:org_id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	TenantDomain string    `gorm:"column:tenant_domain;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

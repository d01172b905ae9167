package model

type Credential struct {
	TenantDomain string `gorm:"column:tenant_domain;primaryKey"`
	Username     string `gorm:"column:username;primaryKey"`
	PasswordHash []byte `gorm:"column:password_hash;not null"`
}

func (Credential) TableName() string {
	return "credentials"
}

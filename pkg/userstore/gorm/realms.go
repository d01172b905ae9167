package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/model"
	"github.com/quorial/idgate/pkg/userstore"
)

// Ensure RealmService implements userstore.RealmService
var _ userstore.RealmService = (*RealmService)(nil)

// RealmService implements userstore.RealmService using GORM
type RealmService struct {
	db *gorm.DB
}

// NewRealmService creates a new RealmService
func NewRealmService(db *gorm.DB) *RealmService {
	return &RealmService{db: db}
}

// TenantRealm returns a user store gateway scoped to the given tenant.
// A tenant that exists but is inactive has no realm; callers treat the
// nil gateway as a no-op.
func (s *RealmService) TenantRealm(ctx context.Context, tenantID int64) (userstore.Gateway, error) {
	var tenant model.Tenant
	tx := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	if !tenant.Active {
		return nil, nil
	}
	return &Gateway{db: s.db, tenantID: tenant.ID}, nil
}

package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/model"
	"github.com/quorial/idgate/pkg/userstore"
)

// Ensure Gateway implements userstore.Gateway
var _ userstore.Gateway = (*Gateway)(nil)

// Gateway implements userstore.Gateway over a single tenant's slice of the
// users table
type Gateway struct {
	db       *gorm.DB
	tenantID int64
}

// NewGateway creates a gateway scoped to a tenant id
func NewGateway(db *gorm.DB, tenantID int64) *Gateway {
	return &Gateway{db: db, tenantID: tenantID}
}

// GetUser looks up a user by id. A missing user is not an error; the
// returned user is nil.
func (g *Gateway) GetUser(ctx context.Context, userID, domainHint string) (*userstore.User, error) {
	query := g.db.WithContext(ctx).Where("user_id = ? AND tenant_id = ?", userID, g.tenantID)
	if domainHint != "" {
		query = query.Where("store_domain = ?", domainHint)
	}

	var user model.User
	tx := query.First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}

	return &userstore.User{
		ID:          user.UserID,
		Username:    user.Username,
		StoreDomain: user.StoreDomain,
	}, nil
}

// CreateUser inserts a user-store entry for this gateway's tenant
func (g *Gateway) CreateUser(ctx context.Context, user *model.User) error {
	user.TenantID = g.tenantID
	return g.db.WithContext(ctx).Create(user).Error
}

// ListUsers returns all users in this gateway's tenant
func (g *Gateway) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	tx := g.db.WithContext(ctx).Where("tenant_id = ?", g.tenantID).Order("username").Find(&users)
	return users, tx.Error
}

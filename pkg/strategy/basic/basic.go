package basic

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/model"
)

// Strategy implements password authentication against the credentials table
type Strategy struct {
	db *gorm.DB
}

// Ensure Strategy implements authcore.Strategy
var _ authcore.Strategy = (*Strategy)(nil)

// NewStrategy creates a new password strategy
func NewStrategy(db *gorm.DB) *Strategy {
	return &Strategy{db: db}
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return "basic"
}

// CanHandle reports whether the input carries a login and a password
func (s *Strategy) CanHandle(in authcore.Input) bool {
	return in.Login != "" && len(in.Credentials) > 0
}

// DoAuthenticate validates the password and returns the authenticated
// identity. A wrong password is a failed outcome, not an error.
func (s *Strategy) DoAuthenticate(ctx context.Context, in authcore.Input) (*authcore.Outcome, error) {
	if in.Login == "" || len(in.Credentials) == 0 {
		return nil, authcore.NewClientError("login and password are required", nil)
	}

	var credential model.Credential
	tx := s.db.WithContext(ctx).
		Where("tenant_domain = ? AND username = ?", in.TenantDomain, in.Login).
		First(&credential)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return authcore.Failed(), nil
		}
		return nil, authcore.NewServerError("credential lookup failed", tx.Error)
	}

	hash := sha256.Sum256(in.Credentials)
	if subtle.ConstantTimeCompare(credential.PasswordHash, hash[:]) != 1 {
		return authcore.Failed(), nil
	}

	user := &identity.Identity{
		Username:     in.Login,
		TenantDomain: in.TenantDomain,
	}
	s.attachStoreEntry(ctx, user)

	return authcore.Success(user), nil
}

// attachStoreEntry enriches the identity with its user-store entry. Best
// effort: the password check already succeeded, a missing entry only means
// fewer attributes.
func (s *Strategy) attachStoreEntry(ctx context.Context, user *identity.Identity) {
	var entry model.User
	tx := s.db.WithContext(ctx).
		Joins("JOIN tenants ON tenants.id = users.tenant_id").
		Where("tenants.domain = ? AND users.username = ?", user.TenantDomain, user.Username).
		First(&entry)
	if tx.Error != nil {
		return
	}

	user.UserStoreDomain = entry.StoreDomain
	user.Attrs = &identity.OrgAttributes{UserID: entry.UserID}
}

// HashPassword derives the stored hash for a password
func HashPassword(password []byte) []byte {
	hash := sha256.Sum256(password)
	return hash[:]
}

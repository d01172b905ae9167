package bearer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/identity"
)

// Config holds bearer token validation settings
type Config struct {
	// SigningKey is the HMAC secret tokens must be signed with
	SigningKey []byte

	// Issuer is the expected issuer claim value (optional)
	Issuer string

	// Audience is the expected audience claim (optional)
	Audience string
}

// Claims is the token payload accepted by the strategy. The registered
// subject claim carries the username; tenant and organization scope ride in
// private claims.
type Claims struct {
	jwt.RegisteredClaims
	TenantDomain     string `json:"tid"`
	StoreDomain      string `json:"store_domain,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	FederatedUser    bool   `json:"federated,omitempty"`
	OrganizationUser bool   `json:"org_user,omitempty"`
	AccessingOrgID   string `json:"accessing_org,omitempty"`
	ResidentOrgID    string `json:"resident_org,omitempty"`
}

// Strategy implements bearer token authentication
type Strategy struct {
	config Config
}

// Ensure Strategy implements authcore.Strategy
var _ authcore.Strategy = (*Strategy)(nil)

// NewStrategy creates a new bearer token strategy
func NewStrategy(config Config) *Strategy {
	return &Strategy{config: config}
}

// Name returns the strategy name
func (s *Strategy) Name() string {
	return "bearer"
}

// CanHandle reports whether the credentials look like a compact JWS
func (s *Strategy) CanHandle(in authcore.Input) bool {
	return bytes.Count(in.Credentials, []byte(".")) == 2
}

// DoAuthenticate validates the token and returns the identity it asserts.
// An invalid or expired token is a failed outcome; a structurally broken
// payload is a client error.
func (s *Strategy) DoAuthenticate(ctx context.Context, in authcore.Input) (*authcore.Outcome, error) {
	if len(in.Credentials) == 0 {
		return nil, authcore.NewClientError("bearer token is required", nil)
	}

	claims := &Claims{}
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if s.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.config.Issuer))
	}
	if s.config.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.config.Audience))
	}

	token, err := jwt.ParseWithClaims(string(in.Credentials), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.config.SigningKey, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, authcore.NewClientError("malformed bearer token", err)
		}
		return authcore.Failed(), nil
	}
	if !token.Valid {
		return authcore.Failed(), nil
	}

	if claims.Subject == "" || claims.TenantDomain == "" {
		return nil, authcore.NewClientError("token is missing subject or tenant claim", nil)
	}

	user := &identity.Identity{
		Username:        claims.Subject,
		TenantDomain:    claims.TenantDomain,
		UserStoreDomain: claims.StoreDomain,
	}
	if claims.UserID != "" || claims.FederatedUser || claims.OrganizationUser ||
		claims.AccessingOrgID != "" || claims.ResidentOrgID != "" {
		user.Attrs = &identity.OrgAttributes{
			UserID:                  claims.UserID,
			FederatedUser:           claims.FederatedUser,
			OrganizationUser:        claims.OrganizationUser,
			AccessingOrganizationID: claims.AccessingOrgID,
			ResidentOrganizationID:  claims.ResidentOrgID,
		}
	}

	return authcore.Success(user), nil
}

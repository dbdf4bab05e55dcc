// Package auth provides authentication support with tenant-bound
// credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rhettharrison/platform-api/business/sdk/tenant"
	"github.com/rhettharrison/platform-api/business/types/role"
	"github.com/rhettharrison/platform-api/foundation/logger"
)

// ErrNotAuthenticated is the only error the authentication surface exposes
// to callers. Signature failures, expired tokens, malformed claims, and
// tenant mismatches all collapse into this value so a caller cannot
// distinguish a credential for another tenant from no credential at all.
var ErrNotAuthenticated = errors.New("not authenticated")

// Claims represents the authorization claims transmitted via a JWT. The
// tenant claim pins the credential to the tenant it was issued under.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string   `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles"`
}

// KeyLookup declares a method set of behavior for looking up
// private and public keys for JWT use. The return could be a
// PEM encoded string or a JWS based key.
type KeyLookup interface {
	PrivateKey(kid string) (key string, err error)
	PublicKey(kid string) (key string, err error)
}

// Config represents information required to initialize auth.
type Config struct {
	Log       *logger.Logger
	KeyLookup KeyLookup
	Issuer    string
}

// Auth is used to authenticate clients. It can generate a token for a
// set of user claims and recreate the claims by parsing the token.
type Auth struct {
	log       *logger.Logger
	keyLookup KeyLookup
	method    jwt.SigningMethod
	parser    *jwt.Parser
	issuer    string
}

// New creates an Auth to support authentication/authorization.
func New(cfg Config) (*Auth, error) {
	a := Auth{
		log:       cfg.Log,
		keyLookup: cfg.KeyLookup,
		method:    jwt.GetSigningMethod(jwt.SigningMethodRS256.Name),
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}), jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired()),
		issuer:    cfg.Issuer,
	}

	return &a, nil
}

// Issuer provides the configured issuer used to authenticate tokens.
func (a *Auth) Issuer() string {
	return a.issuer
}

// GenerateToken generates a signed JWT token string representing the user
// claims, bound to the tenant the user belongs to.
func (a *Auth) GenerateToken(kid string, tenantID uuid.UUID, userID uuid.UUID, roles []role.Role, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		TenantID: tenantID.String(),
		Roles:    role.Names(roles),
	}

	token := jwt.NewWithClaims(a.method, claims)
	token.Header["kid"] = kid

	privateKeyPEM, err := a.keyLookup.PrivateKey(kid)
	if err != nil {
		return "", fmt.Errorf("private key: %w", err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("parsing private pem: %w", err)
	}

	str, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return str, nil
}

// Authenticate processes the token to validate the sender's token is valid
// and that the credential is bound to the tenant already resolved for this
// request. Any failure, including a tenant mismatch, is reported as
// ErrNotAuthenticated.
func (a *Auth) Authenticate(ctx context.Context, bearerToken string) (Claims, error) {
	parts := strings.Split(bearerToken, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return Claims{}, ErrNotAuthenticated
	}

	var claims Claims
	token, err := a.parser.ParseWithClaims(parts[1], &claims, a.publicKey)
	if err != nil {
		a.log.Debug(ctx, "authenticate", "status", "rejected", "reason", err)
		return Claims{}, ErrNotAuthenticated
	}

	if !token.Valid {
		return Claims{}, ErrNotAuthenticated
	}

	tenantID, err := tenant.Current(ctx)
	if err != nil {
		a.log.Debug(ctx, "authenticate", "status", "rejected", "reason", "no tenant bound")
		return Claims{}, ErrNotAuthenticated
	}

	credTenant, err := uuid.Parse(claims.TenantID)
	if err != nil || credTenant != tenantID {
		a.log.Info(ctx, "authenticate", "status", "rejected", "reason", "credential tenant mismatch")
		return Claims{}, ErrNotAuthenticated
	}

	return claims, nil
}

// publicKey looks up the public key for the key id specified in the
// token header.
func (a *Auth) publicKey(t *jwt.Token) (any, error) {
	kidRaw, exists := t.Header["kid"]
	if !exists {
		return nil, fmt.Errorf("kid missing from header: %v", t.Header)
	}

	kid, ok := kidRaw.(string)
	if !ok {
		return nil, fmt.Errorf("kid malformed: %v", kidRaw)
	}

	pem, err := a.keyLookup.PublicKey(kid)
	if err != nil {
		return nil, fmt.Errorf("fetch public key: %w", err)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parsing public pem: %w", err)
	}

	return key, nil
}

// HasRole reports whether the claims carry at least one of the
// specified roles.
func (c Claims) HasRole(roles ...role.Role) bool {
	for _, has := range c.Roles {
		for _, want := range roles {
			if has == want.String() {
				return true
			}
		}
	}

	return false
}

package services

import (
	"crypto/rsa"
	"fmt"
	"time"

	"friendgift/internal/errs"

	"github.com/dgrijalva/jwt-go"
)

// RoleUser is the only group granted to tokens; protected routes require it.
const RoleUser = "user"

// TokenIssuer mints identity tokens.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

type tokenClaims struct {
	UPN    string   `json:"upn,omitempty"`
	Groups []string `json:"groups,omitempty"`
	jwt.StandardClaims
}

// TokenService signs tokens with an RSA private key and verifies them with the
// matching public key (RS256).
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue returns a signed token whose subject is username.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UPN:    username,
		Groups: []string{RoleUser},
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Subject:   username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, expiry, issuer and role and returns the subject.
// Every rejection wraps errs.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", errs.ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer %q", errs.ErrInvalidToken, claims.Issuer)
	}
	if claims.ExpiresAt == 0 {
		return "", fmt.Errorf("%w: missing expiry", errs.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", errs.ErrInvalidToken)
	}
	if !hasGroup(claims.Groups, RoleUser) {
		return "", fmt.Errorf("%w: missing %q group", errs.ErrInvalidToken, RoleUser)
	}
	return claims.Subject, nil
}

func hasGroup(groups []string, want string) bool {
	for _, g := range groups {
		if g == want {
			return true
		}
	}
	return false
}

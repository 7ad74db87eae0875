package impl

import (
	"errors"
	"time"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string
	TTL        time.Duration // validity window from issuance, e.g. 24h
	SigningKey []byte        // HS256 secret; rotating it invalidates all tokens
}

// ====== Claims ======

type IdentityClaims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// ====== Service ======

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func (t *TokenServiceImpl) Issue(user *domain.User) (string, error) {
	now := t.now()
	claims := IdentityClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

// Verify maps the library's failure modes onto the three outcomes callers
// need to distinguish: malformed, expired, bad signature.
func (t *TokenServiceImpl) Verify(tokenStr string) (*authz.Claims, error) {
	claims := &IdentityClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tok.Valid {
		return nil, domain.ErrTokenMalformed
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, domain.ErrTokenMalformed
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return &authz.Claims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

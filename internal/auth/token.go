package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenTTL is the fixed validity window for admin session tokens.
// Tokens are stateless and cannot be revoked before expiry.
const AdminTokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

type adminClaims struct {
	jwt.RegisteredClaims
	AdminID int64 `json:"admin_id"`
}

// MintAdminToken signs a token carrying the admin's id, valid for
// AdminTokenTTL from now.
func MintAdminToken(adminID int64, secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AdminTokenTTL)),
		},
		AdminID: adminID,
	})
	return token.SignedString(secret)
}

// VerifyAdminToken checks the signature and expiry and returns the admin id.
// Any parse, signature, or expiry failure comes back as ErrInvalidToken.
func VerifyAdminToken(tokenString string, secret []byte) (int64, error) {
	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.AdminID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.AdminID, nil
}

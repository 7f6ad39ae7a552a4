package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gfmachado/autorevenda/config"
)

// Roles embedded in issued tokens. Ownership checks rely on these
// matching exactly.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expired token. Callers never learn which.
var ErrInvalidToken = errors.New("token JWT inválido ou expirado")

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// Issue creates a signed token for the given user. Lifetime comes from
// JWT_EXPIRES_IN (e.g. "1d", "12h", "30m", or plain seconds).
func Issue(userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Verify parses and validates a token string. All failures collapse into
// ErrInvalidToken.
func Verify(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Lifetime parses JWT_EXPIRES_IN. Supports the "Nd" day suffix on top of
// time.ParseDuration units; a bare number is taken as seconds. Falls back
// to 24h on anything unparsable.
func Lifetime() time.Duration {
	raw := strings.TrimSpace(config.JWTExpiresIn())
	if raw == "" {
		return 24 * time.Hour
	}

	if days, ok := strings.CutSuffix(raw, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return 24 * time.Hour
	}

	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}

	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}

	return 24 * time.Hour
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

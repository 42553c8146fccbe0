package devbackend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Issuer is the iss claim on every dev token.
const Issuer = "coachdesk-devbackend"

// bcryptCost is kept low; dev accounts are throwaway.
const bcryptCost = bcrypt.MinCost

var errMissingBearer = errors.New("missing bearer token")

// Claims are the fields carried in a dev bearer token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID int64  `json:"tenant_id"`
	CoachID  int64  `json:"coach_id"`
	jwt.RegisteredClaims
}

// ClaimsFor builds token claims for an account.
func ClaimsFor(a Account) Claims {
	return Claims{
		UserID:   a.ID,
		Email:    a.Email,
		Role:     a.Role,
		TenantID: a.TenantID,
		CoachID:  a.EffectiveCoachID(),
	}
}

// NewAccessToken signs an HS256 token for the claims.
// PRE: secret is non-empty, ttl > 0
// POST: Returns a compact JWT
func NewAccessToken(secret string, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature, method and expiry.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

type claimsKey struct{}

// claimsFrom returns the caller's claims set by requireAuth.
func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingBearer
	}
	return strings.TrimSpace(token), nil
}

// requireAuth rejects requests without a valid bearer token.
func requireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			claims, err := ParseToken(secret, raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

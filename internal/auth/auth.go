// Package auth handles password hashing, bearer token issue/verify and
// the role rules that gate every endpoint.
package auth

import (
	"errors"
	"fmt"
	"time"

	"campstock/internal/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a bearer token fails verification
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by an access token
type Claims struct {
	UserID uint   `json:"sub,string"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Manager issues and verifies access tokens
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a token manager with the given signing secret and
// token lifetime
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// CreateToken issues a signed access token for a user
func (m *Manager) CreateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(m.expiry).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken verifies a token string and returns its claims
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a bcrypt hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsSupervisorOrAdmin reports whether the role can review orders
func IsSupervisorOrAdmin(role string) bool {
	return role == string(models.RoleAdmin) || role == string(models.RolePurchasingSupervisor)
}

// IsPurchasingTeam reports whether the role can place and track vendor
// purchases
func IsPurchasingTeam(role string) bool {
	return role == string(models.RoleAdmin) ||
		role == string(models.RolePurchasingSupervisor) ||
		role == string(models.RolePurchasingTeam)
}

// CheckPropertyAccess reports whether a user can act on a property.
// Admins and purchasing roles see every property; camp workers only
// their assigned one.
func CheckPropertyAccess(user *models.User, propertyID uint) bool {
	switch user.Role {
	case string(models.RoleAdmin), string(models.RolePurchasingSupervisor), string(models.RolePurchasingTeam):
		return true
	case string(models.RoleCampWorker):
		return user.PropertyID != nil && *user.PropertyID == propertyID
	}
	return false
}

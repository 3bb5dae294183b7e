// Package client is a typed Go consumer of the campstock REST API. It
// carries the session, wraps every endpoint, and implements the
// optimistic-edit overlay used by review screens.
package client

import (
	"errors"
	"sync"

	"campstock/internal/models"
)

var (
	// ErrSessionExpired is returned when the server rejects the token.
	// The session is cleared before this is returned.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrForbidden is returned by role guards
	ErrForbidden = errors.New("your role does not allow this action")
	// ErrNotLoggedIn is returned when an authenticated call is made
	// without a session
	ErrNotLoggedIn = errors.New("not logged in")
)

// Session holds the bearer token and current user. Safe for concurrent
// use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewSession returns an empty, logged-out session
func NewSession() *Session {
	return &Session{}
}

// Set stores the token and user after a successful login
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear logs the session out
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Token returns the bearer token, empty when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user, nil when logged out
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a session is active
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Role returns the current user's role, empty when logged out
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// RequireRole guards an action behind a role allowlist. It returns
// ErrNotLoggedIn without a session and ErrForbidden when the user's
// role is not in the list.
func (s *Session) RequireRole(roles ...models.UserRole) error {
	role := s.Role()
	if role == "" {
		return ErrNotLoggedIn
	}
	for _, r := range roles {
		if role == string(r) {
			return nil
		}
	}
	return ErrForbidden
}

// CanReview reports whether the user may review submitted orders
func (s *Session) CanReview() bool {
	return s.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor) == nil
}

// CanPlaceOrders reports whether the user may mark orders as placed and
// work the purchase list
func (s *Session) CanPlaceOrders() bool {
	return s.RequireRole(models.RoleAdmin, models.RolePurchasingSupervisor, models.RolePurchasingTeam) == nil
}

// CanManageUsers reports whether the user may administer accounts
func (s *Session) CanManageUsers() bool {
	return s.RequireRole(models.RoleAdmin) == nil
}

// CanEditOrder reports whether items on the order may be edited from
// this client: the order must be draft or changes-requested, and camp
// workers only edit orders for their own property.
func (s *Session) CanEditOrder(order *models.Order) bool {
	user := s.User()
	if user == nil || !order.CanEdit() {
		return false
	}
	if user.Role == string(models.RoleCampWorker) {
		return user.PropertyID != nil && *user.PropertyID == order.PropertyID
	}
	return true
}

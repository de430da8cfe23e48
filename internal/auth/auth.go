// Package auth handles user accounts, password verification, sessions, and
// capability checks. Capability gating happens here, before an operation is
// invoked, so the order engine itself stays role-agnostic.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"invtrack/internal/domain"
	"invtrack/internal/store"
	"invtrack/internal/util"
)

// passwordSalt is appended to passwords before hashing. Changing it
// invalidates every stored hash.
const passwordSalt = "invtrack_salt_v1"

// DefaultAdminUsername and DefaultAdminPassword seed the first account when
// the user table is empty. The password should be changed immediately.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so callers cannot probe for valid accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound means the token is unknown or the session expired.
	ErrSessionNotFound = errors.New("session not found or expired")

	// ErrPermissionDenied means the session's role lacks the capability.
	ErrPermissionDenied = errors.New("permission denied")
)

// Capability is a named permission required to invoke an operation.
type Capability int

const (
	// CapViewReports allows reading reports and listings.
	CapViewReports Capability = iota

	// CapCreateOrder allows creating sales and purchase orders.
	CapCreateOrder

	// CapManageCatalog allows adding and editing products.
	CapManageCatalog

	// CapManageSuppliers allows adding and editing suppliers.
	CapManageSuppliers

	// CapDeleteProduct allows removing products from the catalog.
	CapDeleteProduct

	// CapManageUsers allows registering new accounts.
	CapManageUsers

	// CapViewAudit allows reading the audit log.
	CapViewAudit
)

// roleCapabilities maps each role to the capabilities it grants.
var roleCapabilities = map[domain.Role]map[Capability]bool{
	domain.RoleUser: {
		CapViewReports:     true,
		CapCreateOrder:     true,
		CapManageCatalog:   true,
		CapManageSuppliers: true,
	},
	domain.RoleAdmin: {
		CapViewReports:     true,
		CapCreateOrder:     true,
		CapManageCatalog:   true,
		CapManageSuppliers: true,
		CapDeleteProduct:   true,
		CapManageUsers:     true,
		CapViewAudit:       true,
	},
}

// HashPassword returns the salted SHA-256 digest of a password as hex.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password + passwordSalt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, passwordHash string) bool {
	got := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(passwordHash)) == 1
}

// Manager authenticates users and tracks active sessions in memory.
type Manager struct {
	users   store.UserStore
	ttl     time.Duration
	limiter *util.RateLimiter

	mu       sync.Mutex
	sessions map[string]domain.Session

	// now is the session clock; overridable in tests.
	now func() time.Time
}

// NewManager creates a Manager with the given session lifetime and login
// throttle.
func NewManager(users store.UserStore, sessionTTL time.Duration, loginPerMinute int) *Manager {
	return &Manager{
		users:    users,
		ttl:      sessionTTL,
		limiter:  util.NewRateLimiter(loginPerMinute),
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// Login verifies the credentials and returns a fresh session. Attempts are
// throttled by a token bucket to slow down password guessing.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := m.users.UserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sess := domain.Session{
		Token:     uuid.NewString(),
		Username:  u.Username,
		Role:      u.Role,
		ExpiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[sess.Token] = sess
	m.mu.Unlock()

	return &sess, nil
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Session resolves a token to its active session.
func (m *Manager) Session(token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(sess.ExpiresAt) {
		delete(m.sessions, token)
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Require returns ErrPermissionDenied unless the session's role grants the
// capability.
func (m *Manager) Require(sess *domain.Session, c Capability) error {
	if sess == nil {
		return ErrPermissionDenied
	}
	if !roleCapabilities[sess.Role][c] {
		return ErrPermissionDenied
	}
	return nil
}

// Register creates a new account. Only sessions holding CapManageUsers may
// register users.
func (m *Manager) Register(ctx context.Context, actor *domain.Session, username, password string, role domain.Role) (*domain.User, error) {
	if err := m.Require(actor, CapManageUsers); err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: HashPassword(password),
		Role:         role,
	}
	if err := m.users.AddUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin seeds the default admin account when the user table is empty.
// It reports whether an account was created.
func (m *Manager) EnsureAdmin(ctx context.Context) (bool, error) {
	n, err := m.users.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	u := &domain.User{
		Username:     DefaultAdminUsername,
		PasswordHash: HashPassword(DefaultAdminPassword),
		Role:         domain.RoleAdmin,
	}
	if err := m.users.AddUser(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

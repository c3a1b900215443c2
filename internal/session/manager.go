package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kazipo/geo-reminder/internal/model"
	"github.com/kazipo/geo-reminder/internal/store"
)

var (
	// ErrInvalidCredentials is returned when the email/password pair
	// does not match a user.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signing up with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotSignedIn is returned by Current when no session is active.
	ErrNotSignedIn = errors.New("not signed in")
)

// Session is an authenticated user session.
type Session struct {
	User  model.UserProfile
	Token string
}

// Manager owns the current user session. Engine components receive the
// user explicitly from here at construction instead of fetching it
// ambiently on each call.
type Manager struct {
	store  store.Store
	tokens TokenStore
	logger *log.Logger

	mu      sync.Mutex
	current *Session
}

// NewManager creates a session Manager over the given store. A nil
// tokens store disables token persistence; a nil logger defaults to
// log.Default().
func NewManager(s store.Store, tokens TokenStore, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		store:  s,
		tokens: tokens,
		logger: logger,
	}
}

// SignUp registers a new user and signs them in.
func (m *Manager) SignUp(ctx context.Context, fullName, email, dateOfBirth, password string) (*Session, error) {
	_, err := m.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.UserProfile{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		DateOfBirth:  dateOfBirth,
		PasswordHash: string(hash),
	}
	if err := m.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return m.establish(user), nil
}

// SignIn authenticates a user by email and password.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return m.establish(*user), nil
}

// SignOut clears the current session and its persisted token.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if m.tokens != nil {
		if err := m.tokens.ClearToken(); err != nil {
			m.logger.Printf("session: clearing token: %v", err)
		}
	}
}

// Resume restores the session persisted by a previous process. It
// returns ErrNotSignedIn when no token is stored, the token is
// malformed, or its user no longer exists.
func (m *Manager) Resume(ctx context.Context) (*Session, error) {
	if m.tokens == nil {
		return nil, ErrNotSignedIn
	}

	stored, err := m.tokens.LoadToken()
	if err != nil {
		return nil, ErrNotSignedIn
	}
	userID, token, ok := strings.Cut(stored, ":")
	if !ok || userID == "" || token == "" {
		return nil, ErrNotSignedIn
	}

	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	session := &Session{User: *user, Token: token}
	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	return session, nil
}

// Current returns a snapshot of the signed-in user.
func (m *Manager) Current() (model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return model.UserProfile{}, ErrNotSignedIn
	}
	return m.current.User, nil
}

// establish installs a fresh session for user and persists its token.
func (m *Manager) establish(user model.UserProfile) *Session {
	session := &Session{
		User:  user,
		Token: uuid.New().String(),
	}

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	// Token persistence is best-effort; a keyring failure never
	// blocks sign-in. The user id is stored alongside the token so
	// Resume can re-establish the session after a restart.
	if m.tokens != nil {
		if err := m.tokens.SaveToken(user.ID + ":" + session.Token); err != nil {
			m.logger.Printf("session: saving token: %v", err)
		}
	}

	return session
}

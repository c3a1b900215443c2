package session

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/kazipo/geo-reminder/tests/testutil"
)

// memoryTokenStore keeps the token in memory for tests.
type memoryTokenStore struct {
	token string
	saved int
}

func (m *memoryTokenStore) SaveToken(token string) error {
	m.token = token
	m.saved++
	return nil
}

func (m *memoryTokenStore) LoadToken() (string, error) {
	if m.token == "" {
		return "", errors.New("no token")
	}
	return m.token, nil
}

func (m *memoryTokenStore) ClearToken() error {
	m.token = ""
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memoryTokenStore) {
	t.Helper()

	tokens := &memoryTokenStore{}
	m := NewManager(testutil.NewTestStore(t), tokens, log.New(io.Discard, "", 0))
	return m, tokens
}

func TestSignUpAndSignIn(t *testing.T) {
	m, tokens := newTestManager(t)
	ctx := context.Background()

	session, err := m.SignUp(ctx, "Asha Mwangi", "asha@example.com", "1994-03-12", "hunter2!")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session.User.FullName != "Asha Mwangi" {
		t.Errorf("session user %+v", session.User)
	}
	if session.Token == "" {
		t.Error("session token is empty")
	}
	if tokens.token != session.User.ID+":"+session.Token {
		t.Errorf("persisted token %q, want user id and token", tokens.token)
	}

	current, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.Email != "asha@example.com" {
		t.Errorf("current user %+v", current)
	}

	m.SignOut()
	if _, err := m.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Current after SignOut error = %v, want ErrNotSignedIn", err)
	}

	signedIn, err := m.SignIn(ctx, "asha@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if signedIn.User.ID != session.User.ID {
		t.Errorf("SignIn user ID = %s, want %s", signedIn.User.ID, session.User.ID)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.SignUp(ctx, "Asha Mwangi", "asha@example.com", "", "hunter2!"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, err := m.SignIn(ctx, "asha@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := m.SignIn(ctx, "nobody@example.com", "hunter2!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("SignIn unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestResumeRestoresPersistedSession(t *testing.T) {
	s := testutil.NewTestStore(t)
	tokens := &memoryTokenStore{}
	logger := log.New(io.Discard, "", 0)
	ctx := context.Background()

	first := NewManager(s, tokens, logger)
	session, err := first.SignUp(ctx, "Asha Mwangi", "asha@example.com", "", "hunter2!")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	// A fresh manager over the same store and token store stands in
	// for a new process.
	second := NewManager(s, tokens, logger)
	if _, err := second.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Current before Resume error = %v, want ErrNotSignedIn", err)
	}

	resumed, err := second.Resume(ctx)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.User.ID != session.User.ID {
		t.Errorf("resumed user ID = %s, want %s", resumed.User.ID, session.User.ID)
	}
	if resumed.Token != session.Token {
		t.Errorf("resumed token = %q, want %q", resumed.Token, session.Token)
	}

	current, err := second.Current()
	if err != nil {
		t.Fatalf("Current after Resume: %v", err)
	}
	if current.Email != "asha@example.com" {
		t.Errorf("current user %+v", current)
	}
}

func TestResumeAfterSignOut(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.SignUp(ctx, "Asha Mwangi", "asha@example.com", "", "hunter2!"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	m.SignOut()

	if _, err := m.Resume(ctx); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Resume after SignOut error = %v, want ErrNotSignedIn", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.SignUp(ctx, "Asha Mwangi", "asha@example.com", "", "hunter2!"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := m.SignUp(ctx, "Imposter", "asha@example.com", "", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second SignUp error = %v, want ErrEmailTaken", err)
	}
}

package session

import (
	"context"
	"strings"
	"sync"

	"github.com/woiladev/marketplace-client/internal/application/commands"
	"github.com/woiladev/marketplace-client/internal/domain/session"
	"github.com/woiladev/marketplace-client/internal/infrastructure/api/clients"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/infrastructure/store"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

// resendSentinel is the backend's convention for requesting a fresh OTP:
// the verification endpoint is replayed with this literal in place of a code.
const resendSentinel = "resend"

// Manager holds the authenticated identity. The bearer token lives in the
// durable store, not here; a user is authenticated only while both the
// in-memory user and the stored token exist. VerifyOTP is the only command
// that establishes a session.
type Manager struct {
	mu        sync.RWMutex
	user      *session.User
	loading   bool
	listeners []func(*session.User)

	auth   *clients.AuthClient
	scopes store.Scopes
	log    *logger.Logger
}

func NewManager(auth *clients.AuthClient, scopes store.Scopes, log *logger.Logger) *Manager {
	return &Manager{
		auth:   auth,
		scopes: scopes,
		log:    log,
	}
}

// Restore rebuilds the session from storage at startup. Both a non-empty
// token and a well-formed user record (non-zero id) must be present;
// anything less purges both keys and the session starts anonymous.
func (m *Manager) Restore() {
	token, hasToken := m.scopes.Durable.Get(store.KeyToken)

	var user session.User
	hasUser := store.GetJSON(m.scopes.Durable, store.KeyUser, &user)

	if !hasToken || len(token) == 0 || !hasUser || user.ID == 0 {
		if hasToken || hasUser {
			m.log.Warn("Purging partial session state from storage")
			m.scopes.Durable.Remove(store.KeyToken)
			m.scopes.Durable.Remove(store.KeyUser)
		}
		monitoring.SessionRestoresTotal.WithLabelValues("anonymous").Inc()
		return
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()

	monitoring.SessionRestoresTotal.WithLabelValues("restored").Inc()
	m.log.Info("Session restored", "user_id", user.ID)
	m.notify(&user)
}

// OnChange registers a listener invoked after every identity transition.
func (m *Manager) OnChange(fn func(*session.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify(user *session.User) {
	m.mu.RLock()
	listeners := make([]func(*session.User), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(user)
	}
}

func (m *Manager) User() *session.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) IsAuthenticated() bool {
	token, ok := m.scopes.Durable.Get(store.KeyToken)
	if !ok || len(token) == 0 {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Success does not log the user in: the server
// requires a subsequent login plus OTP verification.
func (m *Manager) Register(ctx context.Context, name, email, password string) commands.Result {
	m.setLoading(true)
	defer m.setLoading(false)

	res := m.auth.Register(ctx, strings.TrimSpace(name), normalizeEmail(email), password)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	message := res.Message()
	if message == "" {
		message = "Registration successful, please log in"
	}
	return commands.Ok(message)
}

// Login triggers OTP dispatch server-side. It records the pending
// verification email but does not set the user or token.
func (m *Manager) Login(ctx context.Context, email, password string) commands.Result {
	m.setLoading(true)
	defer m.setLoading(false)

	email = normalizeEmail(email)
	res := m.auth.Login(ctx, email, password)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	m.updatePending(func(p *session.PendingOps) {
		p.VerificationEmail = email
	})

	message := res.Message()
	if message == "" {
		message = "A verification code has been sent to your email"
	}
	return commands.Ok(message)
}

// VerifyOTP completes login. On success it persists the token and user,
// sets the in-memory identity and notifies listeners.
func (m *Manager) VerifyOTP(ctx context.Context, email, otp string) commands.Result {
	m.setLoading(true)
	defer m.setLoading(false)

	res := m.auth.VerifyOTP(ctx, normalizeEmail(email), otp)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	var body clients.VerifyOTPResponse
	if !res.Decode(&body) || body.Token == "" || body.User.ID == 0 {
		return commands.Fail("Verification response was incomplete")
	}

	m.scopes.Durable.Set(store.KeyToken, []byte(body.Token))
	store.SetJSON(m.scopes.Durable, store.KeyUser, body.User)
	m.updatePending(func(p *session.PendingOps) {
		p.VerificationEmail = ""
	})

	m.mu.Lock()
	m.user = &body.User
	m.mu.Unlock()

	m.log.Info("Session established", "user_id", body.User.ID)
	m.notify(&body.User)

	message := body.Message
	if message == "" {
		message = "Login successful"
	}
	return commands.Ok(message)
}

// ResendOTP replays the verification endpoint with the resend sentinel.
func (m *Manager) ResendOTP(ctx context.Context, email string) commands.Result {
	res := m.auth.VerifyOTP(ctx, normalizeEmail(email), resendSentinel)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	message := res.Message()
	if message == "" {
		message = "A new verification code has been sent"
	}
	return commands.Ok(message)
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) commands.Result {
	email = normalizeEmail(email)
	res := m.auth.ForgotPassword(ctx, email)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	m.updatePending(func(p *session.PendingOps) {
		p.ResetEmail = email
	})

	message := res.Message()
	if message == "" {
		message = "A reset code has been sent to your email"
	}
	return commands.Ok(message)
}

func (m *Manager) VerifyResetOTP(ctx context.Context, email, otp string) commands.Result {
	res := m.auth.VerifyResetOTP(ctx, normalizeEmail(email), otp)
	if !res.Success {
		return commands.Fail(res.Error)
	}
	return commands.Ok(res.Message())
}

// SetNewPassword finishes the reset flow. It never mutates session state.
func (m *Manager) SetNewPassword(ctx context.Context, email, newPassword string) commands.Result {
	res := m.auth.ResetPassword(ctx, normalizeEmail(email), newPassword)
	if !res.Success {
		return commands.Fail(res.Error)
	}

	m.updatePending(func(p *session.PendingOps) {
		p.ResetEmail = ""
	})

	message := res.Message()
	if message == "" {
		message = "Password updated, please log in"
	}
	return commands.Ok(message)
}

// Logout is synchronous and cannot fail.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	m.scopes.Durable.Remove(store.KeyToken)
	m.scopes.Durable.Remove(store.KeyUser)
	m.scopes.Durable.Remove(store.KeySubscription)

	m.log.Info("Session cleared")
	m.notify(nil)
}

// PendingOps returns the transient auth-flow record.
func (m *Manager) PendingOps() session.PendingOps {
	var pending session.PendingOps
	store.GetJSON(m.scopes.Durable, store.KeyPendingOps, &pending)
	return pending
}

func (m *Manager) updatePending(mutate func(*session.PendingOps)) {
	pending := m.PendingOps()
	mutate(&pending)
	if pending.Empty() {
		m.scopes.Durable.Remove(store.KeyPendingOps)
		return
	}
	store.SetJSON(m.scopes.Durable, store.KeyPendingOps, pending)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/telemetry"
	"go.opentelemetry.io/otel"
)

// SessionManager binds workspaces to admin identities. Signing in creates (or
// reuses) a workspace and loads it in the background; signing out empties and
// drops it.
type SessionManager struct {
	gateway   Gateway
	directory *AdminDirectoryService
	now       func() time.Time

	metrics *telemetry.WorkspaceMetrics

	mu       sync.Mutex
	sessions map[string]*session
	loads    sync.WaitGroup
}

// session is a live workspace plus a latch that opens once it may be served.
// A signed-in workspace is servable at once and reports loading itself; a
// restored one is held until its first load finishes.
type session struct {
	ws    *Workspace
	ready chan struct{}
	once  sync.Once
}

func (s *session) markReady() {
	s.once.Do(func() { close(s.ready) })
}

// NewSessionManager creates a session manager
func NewSessionManager(gateway Gateway, directory *AdminDirectoryService, now func() time.Time) *SessionManager {
	if now == nil {
		now = time.Now
	}
	metrics, err := telemetry.NewWorkspaceMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Printf("[Session] workspace metrics disabled: %v", err)
	}
	return &SessionManager{
		gateway:   gateway,
		directory: directory,
		now:       now,
		metrics:   metrics,
		sessions:  make(map[string]*session),
	}
}

// HandleEvent applies an identity change reported by the session provider
func (m *SessionManager) HandleEvent(event domain.SessionEvent, identity domain.Identity) error {
	switch event {
	case domain.EventSignedIn:
		m.SignIn(identity)
		return nil
	case domain.EventSignedOut:
		m.SignOut(identity.UserID)
		return nil
	default:
		return fmt.Errorf("unknown session event %q", event)
	}
}

// SignIn returns the identity's workspace and starts loading it. A sign-in
// while a load is still running restarts the load.
func (m *SessionManager) SignIn(identity domain.Identity) *Workspace {
	sess, _ := m.sessionFor(identity)
	sess.markReady()
	ws := sess.ws

	m.loads.Add(1)
	go func() {
		defer m.loads.Done()
		m.load(context.Background(), ws)
	}()

	return ws
}

// SignOut empties the identity's workspace and forgets it
func (m *SessionManager) SignOut(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		m.close(sess)
		log.Printf("[Session] workspace closed for %s", sess.ws.Identity().Email)
	}
}

// Acquire returns the live workspace for identity. With none live the request
// is a session restore: a workspace is created and loaded before returning.
// Requests arriving during a restore wait for it instead of serving the empty
// workspace.
func (m *SessionManager) Acquire(ctx context.Context, identity domain.Identity) (*Workspace, error) {
	sess, created := m.sessionFor(identity)
	if created {
		log.Printf("[Session] restoring session for %s", identity.Email)
		m.load(ctx, sess.ws)
		sess.markReady()
		return sess.ws, nil
	}

	select {
	case <-sess.ready:
		if sess.ws.Closed() {
			return nil, ErrWorkspaceClosed
		}
		return sess.ws, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Lookup returns the live workspace for userID without creating one
func (m *SessionManager) Lookup(userID string) (*Workspace, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	return sess.ws, true
}

// Wait blocks until background loads have finished
func (m *SessionManager) Wait() {
	m.loads.Wait()
}

// Shutdown closes every workspace and waits for loads to unwind
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for _, sess := range sessions {
		m.close(sess)
	}
	m.loads.Wait()
}

func (m *SessionManager) sessionFor(identity domain.Identity) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[identity.UserID]; ok {
		return sess, false
	}
	ws := NewWorkspace(m.gateway, m.directory, identity, m.now)
	ws.metrics = m.metrics
	sess := &session{ws: ws, ready: make(chan struct{})}
	m.sessions[identity.UserID] = sess
	m.metrics.WorkspaceOpened(context.Background())
	return sess, true
}

// close empties the workspace and releases anyone waiting on its restore
func (m *SessionManager) close(sess *session) {
	sess.ws.Close()
	sess.markReady()
	m.metrics.WorkspaceClosed(context.Background())
}

// load refreshes the collections, then the admin list. Superseded or closed
// loads stop quietly.
func (m *SessionManager) load(ctx context.Context, ws *Workspace) {
	err := ws.Refresh(ctx)
	switch {
	case errors.Is(err, ErrRefreshSuperseded), errors.Is(err, ErrWorkspaceClosed):
		return
	case err != nil:
		log.Printf("[Session] partial load for %s: %v", ws.Identity().Email, err)
	}

	if _, err := ws.RefreshAdminUsers(ctx); err != nil && !errors.Is(err, ErrWorkspaceClosed) && !errors.Is(err, ErrRefreshSuperseded) {
		log.Printf("[Session] admin list load failed for %s: %v", ws.Identity().Email, err)
	}
}

package testutil

import (
	"context"
	"fmt"
	"sync"

	"firebase.google.com/go/v4/auth"
)

// MockAuthClient stands in for the Firebase Auth client in tests
type MockAuthClient struct {
	mu sync.Mutex
	// Key: ID token presented by the client
	ValidTokens map[string]*auth.Token
}

func NewMockAuthClient() *MockAuthClient {
	return &MockAuthClient{
		ValidTokens: make(map[string]*auth.Token),
	}
}

func (m *MockAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.ValidTokens[idToken]; ok {
		return token, nil
	}
	return nil, fmt.Errorf("invalid mock token")
}

// AddMockUser registers a token for uid/email. A non-empty role is set as a custom claim.
func (m *MockAuthClient) AddMockUser(tokenString, uid, email, role string) {
	claims := map[string]interface{}{
		"email": email,
	}
	if role != "" {
		claims["role"] = role
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidTokens[tokenString] = &auth.Token{
		UID:      uid,
		IssuedAt: 1704067200, // 2024-01-01
		Claims:   claims,
	}
}

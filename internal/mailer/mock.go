package mailer

import (
	"context"
	"sync"
)

// MockMailer guarda os e-mails em memória; usado nos testes e no modo dev sem SMTP.
type MockMailer struct {
	mu        sync.Mutex
	emails    []Email
	ShouldErr bool
}

func NewMock() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldErr {
		return ErrSimulatedFailure
	}

	m.emails = append(m.emails, email)
	return nil
}

func (m *MockMailer) Type() ProviderType { return ProviderMock }
func (m *MockMailer) IsAvailable() bool  { return true }

func (m *MockMailer) GetEmailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emails)
}

func (m *MockMailer) GetLastEmail() *Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.emails) == 0 {
		return nil
	}
	e := m.emails[len(m.emails)-1]
	return &e
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = nil
	m.ShouldErr = false
}

package mocks

import (
	"context"
	"sync"
)

// SentMail records one delivered message.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer implements mail.Mailer, recording sent messages.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail

	// SendErr forces Send to fail when set.
	SendErr error
}

// Send implements the mail.Mailer interface.
func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// SentCount returns the number of recorded messages.
func (m *MockMailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

package notification

import (
	"context"

	appid "github.com/stocksync/backend/internal/application/identity"
	"go.uber.org/zap"
)

// LogMailer is an ActivationMailer that only logs. It stands in for a real
// SMTP integration in development and tests.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// SendActivationEmail logs the activation email instead of sending it
func (m *LogMailer) SendActivationEmail(_ context.Context, recipient, orgName, token string) error {
	m.logger.Info("activation email",
		zap.String("recipient", recipient),
		zap.String("organization", orgName),
		zap.String("token", token),
	)
	return nil
}

var _ appid.ActivationMailer = (*LogMailer)(nil)

package service

import (
	"context"
	"fmt"

	"github.com/techsplot/smart-health-backend/config"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const resendEndpoint = "https://api.resend.com/emails"

// MailerService sends transactional email through the Resend HTTP API.
type MailerService struct {
	client *resty.Client
	log    *logrus.Logger
	config config.MailConfig
}

func NewMailerService(log *logrus.Logger, cfg config.MailConfig) *MailerService {
	client := resty.New().
		SetAuthToken(cfg.ResendAPIKey).
		SetHeader("Content-Type", "application/json")

	return &MailerService{
		client: client,
		log:    log,
		config: cfg,
	}
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPasswordResetEmail delivers the reset link carrying the token.
// Callers treat this as fire-and-forget; failures are logged and returned
// but never surfaced to the requester.
func (s *MailerService) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	resetLink := fmt.Sprintf("%s?token=%s", s.config.ResetLinkURL, token)

	html := fmt.Sprintf(`<div style="font-family:sans-serif">
<h2>Password Reset Request</h2>
<p>You requested to reset your password. Click the link below to reset it:</p>
<a href="%s">Reset Password</a>
<p>This link will expire shortly. If you didn't request this, you can ignore this email.</p>
</div>`, resetLink)

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(resendEmailRequest{
			From:    s.config.From,
			To:      []string{toEmail},
			Subject: "Reset Your Password",
			HTML:    html,
		}).
		Post(resendEndpoint)
	if err != nil {
		s.log.Warnf("Failed to send reset email to %s: %+v", toEmail, err)
		return err
	}
	if resp.IsError() {
		s.log.Warnf("Resend rejected reset email to %s: status=%d body=%s", toEmail, resp.StatusCode(), resp.String())
		return fmt.Errorf("resend returned status %d", resp.StatusCode())
	}

	s.log.Infof("Reset email sent to %s", toEmail)
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"notedo/internal/mail"
	"notedo/internal/queue"
	"notedo/internal/repository"
)

// Account email job names.
const (
	JobActivationEmail    = "user.activation_email"
	JobPasswordResetEmail = "user.password_reset_email"
)

// AccountEmailPayload identifies the user and carries the one-shot token the
// emailed link embeds.
type AccountEmailPayload struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

// AccountNotifier handles account lifecycle emails (activation, password
// reset). Like the reminder dispatcher, a vanished user is terminal.
type AccountNotifier struct {
	users   repository.UserRepository
	mailer  mail.Mailer
	from    string
	baseURL string
	log     *slog.Logger
}

// NewAccountNotifier creates an account notifier. Links are built against
// baseURL.
func NewAccountNotifier(users repository.UserRepository, mailer mail.Mailer, from, baseURL string, log *slog.Logger) *AccountNotifier {
	return &AccountNotifier{users: users, mailer: mailer, from: from, baseURL: baseURL, log: log}
}

// HandleActivationEmail sends the account activation link.
func (n *AccountNotifier) HandleActivationEmail(ctx context.Context, job *queue.Job) error {
	return n.sendLink(ctx, job, "activation", func(userID uint, token, username string) (string, string) {
		link := fmt.Sprintf("%s/api/auth/activate/%d/%s", n.baseURL, userID, token)
		return mail.ActivationMessage(username, link)
	})
}

// HandlePasswordResetEmail sends the password reset link.
func (n *AccountNotifier) HandlePasswordResetEmail(ctx context.Context, job *queue.Job) error {
	return n.sendLink(ctx, job, "password reset", func(userID uint, token, username string) (string, string) {
		link := fmt.Sprintf("%s/api/auth/password-reset/%d/%s", n.baseURL, userID, token)
		return mail.PasswordResetMessage(username, link)
	})
}

func (n *AccountNotifier) sendLink(ctx context.Context, job *queue.Job, kind string, render func(userID uint, token, username string) (string, string)) error {
	var payload AccountEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return err
	}

	user, err := n.users.FindByID(ctx, payload.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		n.log.Warn("user not found, skipping email", "kind", kind, "user_id", payload.UserID)
		return nil
	}
	if err != nil {
		return err
	}

	subject, body := render(user.ID, payload.Token, user.Username)

	if err := n.mailer.Send(ctx, subject, body, n.from, []string{user.Email}); err != nil {
		n.log.Error("failed to send email", "kind", kind, "user_id", user.ID, "error", err)
		return queue.Retry(err)
	}

	n.log.Info("email sent", "kind", kind, "user_id", user.ID)
	return nil
}

package mailer

import "fmt"

// Sender delivers one message; SMTPClient satisfies it, tests use fakes.
type Sender interface {
	Send(to, subject, body string) error
}

// Emails composes the four transactional messages the auth flows send.
type Emails struct {
	Client    Sender
	ClientURL string
}

func NewEmails(client Sender, clientURL string) *Emails {
	return &Emails{Client: client, ClientURL: clientURL}
}

func (e *Emails) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s/verify-email/%s", e.ClientURL, token)
	body := fmt.Sprintf("Hello,\n\nVerify your email by opening the link below:\n%s\n\nThe link expires in 8 hours. If you didn't sign up, ignore this message.", link)
	return e.Client.Send(to, "Verify your email", body)
}

func (e *Emails) SendWelcome(to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nWelcome! Your email is verified and your account is ready.", name)
	return e.Client.Send(to, "Welcome to the chat!", body)
}

func (e *Emails) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf("Hello,\n\nReset your password by opening the link below:\n%s\n\nThe link expires in 1 hour. If you didn't request this, ignore this message.", resetURL)
	return e.Client.Send(to, "Reset your password", body)
}

func (e *Emails) SendResetSuccess(to string) error {
	body := "Hello,\n\nYour password has been changed successfully. If this wasn't you, reset your password immediately."
	return e.Client.Send(to, "Password reset successful", body)
}

package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. It is an optional collaborator:
// a nil *Mailer is safe to call and does nothing, which is how the app runs
// without SMTP credentials.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendWelcome greets a freshly registered user.
func (m *Mailer) SendWelcome(to, username string) error {
	if m == nil {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to the store")
	msg.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy shopping!\n", username))

	return m.dialer.DialAndSend(msg)
}

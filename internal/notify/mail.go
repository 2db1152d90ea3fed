package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
	CC       string
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.To != ""
}

// Mail mirrors reports to an e-mail address.
type Mail struct {
	conf MailConfig
	send func(m ...*gomail.Message) error
}

func NewMail(conf MailConfig) *Mail {
	d := gomail.NewDialer(conf.Host, conf.Port, conf.User, conf.Password)
	return &Mail{
		conf: conf,
		send: d.DialAndSend,
	}
}

func (m *Mail) Notify(_ context.Context, text string) error {
	subject, _, _ := strings.Cut(text, "\n")

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.conf.From)
	msg.SetHeader("To", m.conf.To)
	if m.conf.CC != "" {
		msg.SetHeader("Cc", m.conf.CC)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}
	return nil
}

package gomail

import (
	"crypto/tls"
	"fmt"
	"regexp"

	"gopkg.in/gomail.v2"

	"github.com/samandr77/microservices/condo/pkg/config"
)

const fromName = "Administración del Condominio"

var htmlTag = regexp.MustCompile("<[^>]+>")

type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Client struct {
	from   string
	sender Sender
}

func New(cfg config.Mailer) *Client {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Login, cfg.Password)

	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return NewWithSender(cfg.From, dialer)
}

func NewWithSender(from string, sender Sender) *Client {
	return &Client{
		from:   from,
		sender: sender,
	}
}

func (c *Client) SendMessage(subject, message string, recipients []string, contentType string) error {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetAddressHeader("From", c.from, fromName)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)

	switch contentType {
	case "text/html", "text/plain":
		msg.SetBody(contentType, message)
	default:
		if htmlTag.MatchString(message) {
			msg.SetBody("text/html", message)
		} else {
			msg.SetBody("text/plain", message)
		}
	}

	err := c.sender.DialAndSend(msg)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

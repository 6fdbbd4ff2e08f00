// Package mail sends the account activation email.
package mail

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"droscher.com/BreweryFinder/configs"
)

var ErrNotConfigured = errors.New("outbound mail is not configured")

const activationSubject = "Brewery Finder Registration"

const activationBody = `<div>
<h4 style="color: forestgreen; font-weight: bold; margin-top: 10px;">Thank you for signing up for Brewery Finder</h4>
<p style="color: gray; font-size: 18px;">To complete the activation process for your account, please follow <a href="%s" style="color: orange; font-weight: bold; text-decoration: underline;">this link</a>.</p>
</div>`

type Mailer struct {
	conf   configs.Mail
	logger *zap.Logger
}

func NewMailer(conf configs.Mail, logger *zap.Logger) *Mailer {
	return &Mailer{conf: conf, logger: logger}
}

// SendActivation emails the activation link. Callers treat failures as
// non-fatal: a user account is still created when mail is down.
func (m *Mailer) SendActivation(to string, activationURL string) error {
	if m.conf.Host == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.conf.Address)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", activationSubject)
	msg.SetBody("text/html", fmt.Sprintf(activationBody, activationURL))

	dialer := gomail.NewDialer(m.conf.Host, m.conf.Port, m.conf.Address, m.conf.Password)

	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("unable to send activation email", zap.String("to", to), zap.Error(err))

		return err
	}

	return nil
}

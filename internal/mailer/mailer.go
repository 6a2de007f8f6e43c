package mailer

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/menulink/menulink/config"
)

// Mailer delivers notification mail out-of-band through a bounded worker
// pool. Delivery failures are logged and never roll back or block the
// triggering request.
type Mailer struct {
	cfg  config.MailConfig
	pool *ants.Pool
}

func NewMailer(cfg config.MailConfig) *Mailer {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		panic(err)
	}
	return &Mailer{cfg: cfg, pool: pool}
}

// Enqueue schedules a message for delivery, fire and forget.
func (m *Mailer) Enqueue(subject, to, body string) {
	if !m.cfg.Enabled {
		zap.L().Debug("mail disabled, dropping message", zap.String("to", to), zap.String("subject", subject))
		return
	}
	err := m.pool.Submit(func() {
		m.send(subject, to, body)
	})
	if err != nil {
		zap.L().Warn("mail queue full, message dropped",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
	}
}

func (m *Mailer) send(subject, to, body string) {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Passwd)
	if err := dialer.DialAndSend(msg); err != nil {
		zap.L().Error("mail delivery failed", zap.String("to", to), zap.Error(err))
		return
	}
	zap.L().Info("mail delivered", zap.String("to", to), zap.String("subject", subject))
}

// Release stops the worker pool.
func (m *Mailer) Release() {
	m.pool.Release()
}

// Package notify envía las notificaciones de consumo por correo (SMTP con STARTTLS vía gomail).
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/resortes-api/pkg/config"
)

// Sender lo cumple *gomail.Dialer; en tests se reemplaza por un fake.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier implementa inventory.Notifier.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	sender Sender
	log    zerolog.Logger
}

// NewSMTPNotifier construye el notificador con un gomail.Dialer. Si falta configuración el
// notificador queda deshabilitado y cada Notify lo informa sin intentar conectarse.
func NewSMTPNotifier(cfg config.SMTPConfig, log zerolog.Logger) *SMTPNotifier {
	var sender Sender
	if len(cfg.Missing()) == 0 {
		sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return NewSMTPNotifierWithSender(cfg, sender, log)
}

// NewSMTPNotifierWithSender permite inyectar el Sender.
func NewSMTPNotifierWithSender(cfg config.SMTPConfig, sender Sender, log zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, sender: sender, log: log.With().Str("component", "notify").Logger()}
}

// Notify envía un correo de texto plano a EMAIL_TO. Nunca devuelve error: el resultado
// (enviado o no, y por qué) se informa en ok y message.
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) (bool, string) {
	if missing := n.cfg.Missing(); len(missing) > 0 || n.sender == nil {
		msg := "notificación deshabilitada: falta configurar " + strings.Join(missing, ", ")
		n.log.Debug().Str("subject", subject).Msg(msg)
		return false, msg
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Sprintf("notificación cancelada: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		// El envío en curso no se puede abortar; su resultado final solo queda en el log.
		go func() {
			if err := <-done; err != nil {
				n.log.Warn().Str("subject", subject).Err(err).Msg("envío tardío de notificación fallido")
				return
			}
			n.log.Info().Str("subject", subject).Msg("notificación enviada después de la cancelación")
		}()
		n.log.Warn().Str("subject", subject).Err(ctx.Err()).Msg("envío de notificación sin confirmar")
		return false, fmt.Sprintf("resultado de la notificación desconocido (%v): el correo puede haberse enviado", ctx.Err())
	case err := <-done:
		if err != nil {
			n.log.Warn().Str("subject", subject).Err(err).Msg("no se pudo enviar la notificación")
			return false, fmt.Sprintf("no se pudo enviar el correo: %v", err)
		}
	}
	to := strings.Join(n.cfg.To, ", ")
	n.log.Info().Str("subject", subject).Str("to", to).Msg("notificación enviada")
	return true, "correo enviado a " + to
}

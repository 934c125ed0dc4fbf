package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jpradov/galeria-api/internal/application/invitation"
	"github.com/jpradov/galeria-api/pkg/config"
)

var _ invitation.Mailer = (*SMTPMailer)(nil)

// SMTPMailer implementación del puerto Mailer sobre SMTP. El core solo produce
// la URL de aceptación y los campos de plantilla; el resultado del envío no
// toca el estado de la invitación.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía el correo de invitación.
func (m *SMTPMailer) Send(ctx context.Context, to string, data invitation.MailData) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Invitación a %s", data.StoreName))
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>Te invitaron a unirte a <b>%s</b> con el rol <b>%s</b>.</p>
<p><a href="%s">Aceptar invitación</a></p>
<p>El enlace vence el %s.</p>`,
		data.StoreName, data.Rol, data.AcceptURL,
		data.ExpiresAt.Format("02/01/2006 15:04"),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}

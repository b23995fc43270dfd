package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const messageTypeEmail = "email"

// Notifier turns owner-change events into e-mails.
type Notifier struct {
	mailer          Mailer
	alertRecipients []string
}

func NewNotifier(mailer Mailer, alertRecipients []string) *Notifier {
	return &Notifier{
		mailer:          mailer,
		alertRecipients: alertRecipients,
	}
}

var (
	newOwnerTmpl = template.Must(template.New("new_owner").Parse(
		`<p>Hola {{.NewOwner.Name}},</p>
<p>Desde el {{.ChangedAt.Format "02/01/2006 15:04"}} usted figura como copropietario responsable de su vivienda.</p>`))

	previousOwnerTmpl = template.Must(template.New("previous_owner").Parse(
		`<p>Hola {{.PreviousHolder.Name}},</p>
<p>El rol de copropietario fue asignado a {{.NewOwner.Name}}. Su cuenta quedó registrada como inquilino.</p>`))

	alertTmpl = template.Must(template.New("alert").Parse(
		`<p>La reasignación de copropietario para el usuario {{.TargetID}} no se completó.</p>
{{if .PreviousHolder}}<p>Copropietario anterior: {{.PreviousHolder.Name}} ({{.PreviousHolder.Email}})</p>{{end}}
<p>Motivo: {{.Reason}}</p>
<p>Revise la lista de usuarios: puede haber cero o dos copropietarios.</p>`))
)

func (n *Notifier) SendMessage(message entity.Message) error {
	switch message.Type {
	case messageTypeEmail:
		err := n.mailer.SendMessage(
			message.Subject,
			message.Message,
			message.Recipients,
			message.ContentType,
		)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", entity.ErrUnknownMessageType, message.Type)
	}

	return nil
}

// OwnerReassigned informs the new owner and, when there was one, the demoted holder.
func (n *Notifier) OwnerReassigned(ctx context.Context, ev entity.OwnerReassignedEvent) error {
	if ev.NewOwner.Email != "" {
		body, err := render(newOwnerTmpl, ev)
		if err != nil {
			return err
		}

		err = n.SendMessage(entity.Message{
			Type:        messageTypeEmail,
			Subject:     "Ahora es copropietario",
			Message:     body,
			Recipients:  []string{ev.NewOwner.Email},
			ContentType: "text/html",
		})
		if err != nil {
			return fmt.Errorf("notify new owner %d: %w", ev.NewOwner.ID, err)
		}
	}

	if ev.PreviousHolder != nil && ev.PreviousHolder.Email != "" {
		body, err := render(previousOwnerTmpl, ev)
		if err != nil {
			return err
		}

		err = n.SendMessage(entity.Message{
			Type:        messageTypeEmail,
			Subject:     "Cambio de copropietario",
			Message:     body,
			Recipients:  []string{ev.PreviousHolder.Email},
			ContentType: "text/html",
		})
		if err != nil {
			return fmt.Errorf("notify previous owner %d: %w", ev.PreviousHolder.ID, err)
		}
	}

	slog.InfoContext(ctx, "owner change notified", "new_owner", ev.NewOwner.ID)

	return nil
}

// OwnerPartialFailure alerts the administrators that the roster may hold zero
// or two owners.
func (n *Notifier) OwnerPartialFailure(ctx context.Context, ev entity.OwnerPartialFailureEvent) error {
	if len(n.alertRecipients) == 0 {
		slog.WarnContext(ctx, "owner alert dropped: no recipients configured", "target", ev.TargetID)
		return nil
	}

	body, err := render(alertTmpl, ev)
	if err != nil {
		return err
	}

	err = n.SendMessage(entity.Message{
		Type:        messageTypeEmail,
		Subject:     "Alerta: reasignación de copropietario incompleta",
		Message:     body,
		Recipients:  n.alertRecipients,
		ContentType: "text/html",
	})
	if err != nil {
		return fmt.Errorf("send owner alert: %w", err)
	}

	return nil
}

func render(t *template.Template, data any) (string, error) {
	buf := new(bytes.Buffer)

	err := t.Execute(buf, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}

	return buf.String(), nil
}

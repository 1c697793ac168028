package ports

import "context"

// Attachment archivo adjunto a un correo.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// EmailMessage correo saliente ya renderizado.
type EmailMessage struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// EmailSender puerto de salida para correo. Los llamadores tratan sus errores
// como best-effort salvo que se indique lo contrario.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

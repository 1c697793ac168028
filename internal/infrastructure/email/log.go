package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
)

var _ ports.EmailSender = (*LogSender)(nil)

// LogSender no envía nada: registra el correo y lo guarda en memoria.
// Es el driver de desarrollo (EMAIL_DRIVER=log).
type LogSender struct {
	log  zerolog.Logger
	mu   sync.Mutex
	sent []ports.EmailMessage
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.EmailMessage) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("email (driver log)")
	return nil
}

// Sent copia de los correos registrados.
func (s *LogSender) Sent() []ports.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.EmailMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

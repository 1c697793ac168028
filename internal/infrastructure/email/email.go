package email

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/pkg/config"
)

// New elige el sender según EMAIL_DRIVER.
func New(cfg config.EmailConfig, log zerolog.Logger) (ports.EmailSender, error) {
	switch cfg.Driver {
	case "smtp":
		if cfg.Host == "" {
			return nil, fmt.Errorf("email: EMAIL_HOST es obligatorio con driver smtp")
		}
		return NewSMTPSender(cfg), nil
	case "log", "":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("email: driver desconocido %q", cfg.Driver)
	}
}

// Package scheduler ejecuta tareas periódicas dentro del proceso con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job tarea programada; el contexto se cancela al detener el scheduler.
type Job func(ctx context.Context) error

// Cron envoltorio de cron.Cron con logging y timeout por ejecución.
type Cron struct {
	c       *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New usa expresiones estándar de 5 campos en UTC.
func New(log zerolog.Logger, timeout time.Duration) *Cron {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cron{
		c:       cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Validate comprueba la expresión sin registrar nada.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("expresión cron %q: %w", spec, err)
	}
	return nil
}

// Add registra job bajo name. Los errores del job se registran, no se propagan.
func (s *Cron) Add(name, spec string, job Job) error {
	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("tarea programada fallida")
			return
		}
		s.log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("tarea programada completada")
	})
	if err != nil {
		return fmt.Errorf("programar %s: %w", name, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("tarea programada")
	return nil
}

func (s *Cron) Start() { s.c.Start() }

// Stop espera a que terminen las ejecuciones en curso o a que venza ctx.
func (s *Cron) Stop(ctx context.Context) {
	s.cancel()
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Entries número de tareas registradas.
func (s *Cron) Entries() int { return len(s.c.Entries()) }

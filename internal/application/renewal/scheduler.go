// Package renewal emite los recordatorios de renovación de contrato.
// La idempotencia se apoya en el registro (empresa, días antes): se envía y
// luego se inserta, por lo que una caída entre ambos pasos puede duplicar un
// correo en la siguiente corrida (al menos una vez).
package renewal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// DefaultThresholds días antes de la renovación en los que se avisa.
var DefaultThresholds = []int{30, 15, 7, 1}

// ReminderNotifier envía el correo de recordatorio.
type ReminderNotifier interface {
	RenewalReminder(ctx context.Context, c *entity.Company, daysBefore int, renewalDate time.Time) error
}

// BatchReport resultado de una corrida.
type BatchReport struct {
	Date    string `json:"date"`
	Scanned int    `json:"scanned"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Scheduler lote diario de recordatorios.
type Scheduler struct {
	companies  repository.CompanyRepository
	reminders  repository.RenewalReminderRepository
	notifier   ReminderNotifier
	metrics    *metrics.Collector
	thresholds map[int]bool
	log        zerolog.Logger
	now        func() time.Time
}

func NewScheduler(companies repository.CompanyRepository, reminders repository.RenewalReminderRepository, notifier ReminderNotifier, m *metrics.Collector, thresholds []int, log zerolog.Logger) *Scheduler {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	set := make(map[int]bool, len(thresholds))
	for _, d := range thresholds {
		set[d] = true
	}
	return &Scheduler{
		companies:  companies,
		reminders:  reminders,
		notifier:   notifier,
		metrics:    m,
		thresholds: set,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Thresholds umbrales configurados, de mayor a menor.
func (s *Scheduler) Thresholds() []int {
	out := make([]int, 0, len(s.thresholds))
	for d := range s.thresholds {
		out = append(out, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// DateOnly descarta hora y zona: solo cuenta la fecha de calendario.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil diferencia en días de calendario entre dos fechas.
func DaysUntil(today, renewal time.Time) int {
	return int(DateOnly(renewal).Sub(DateOnly(today)).Hours() / 24)
}

// RunDaily procesa las empresas con renovación futura. Un fallo por empresa se
// registra y el lote continúa; solo el listado inicial corta la corrida.
func (s *Scheduler) RunDaily(ctx context.Context, today time.Time) (*BatchReport, error) {
	day := DateOnly(today)
	report := &BatchReport{Date: day.Format("2006-01-02")}

	companies, err := s.companies.ListRenewalCandidates(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("renovaciones: listar empresas: %w", err)
	}
	for _, c := range companies {
		if c.RenewalDate == nil {
			continue
		}
		report.Scanned++
		days := DaysUntil(day, *c.RenewalDate)
		if days <= 0 || !s.thresholds[days] {
			continue
		}
		sent, err := s.remind(ctx, c, days)
		label := strconv.Itoa(days)
		switch {
		case err != nil:
			report.Failed++
			s.metrics.Reminder(label, "failed")
			s.log.Error().Err(err).Str("company_id", c.ID).Int("days_before", days).Msg("recordatorio de renovación fallido")
		case sent:
			report.Sent++
			s.metrics.Reminder(label, "sent")
		default:
			report.Skipped++
			s.metrics.Reminder(label, "skipped")
		}
	}
	s.log.Info().
		Str("date", report.Date).
		Int("scanned", report.Scanned).
		Int("sent", report.Sent).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("lote de renovaciones terminado")
	return report, nil
}

// RunToday RunDaily con el reloj del scheduler (cron).
func (s *Scheduler) RunToday(ctx context.Context) (*BatchReport, error) {
	return s.RunDaily(ctx, s.now())
}

func (s *Scheduler) remind(ctx context.Context, c *entity.Company, days int) (bool, error) {
	exists, err := s.reminders.Exists(ctx, c.ID, days)
	if err != nil {
		return false, fmt.Errorf("consultar registro: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := s.notifier.RenewalReminder(ctx, c, days, DateOnly(*c.RenewalDate)); err != nil {
		return false, fmt.Errorf("enviar correo: %w", err)
	}
	err = s.reminders.Create(ctx, &entity.RenewalReminder{
		ID:          uuid.New().String(),
		CompanyID:   c.ID,
		DaysBefore:  days,
		RenewalDate: DateOnly(*c.RenewalDate),
		SentAt:      s.now(),
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return true, fmt.Errorf("registrar recordatorio: %w", err)
	}
	return true, nil
}

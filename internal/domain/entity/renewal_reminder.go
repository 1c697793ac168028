package entity

import "time"

// RenewalReminder registro de idempotencia: el recordatorio (CompanyID, DaysBefore) ya fue enviado.
type RenewalReminder struct {
	ID          string
	CompanyID   string
	DaysBefore  int
	RenewalDate time.Time
	SentAt      time.Time
}

package compliance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// ImportReport resumen de una importación de requisitos.
type ImportReport struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ImportRequirements lee un CSV "document_type,description" (cabecera opcional).
// encoding "latin1" decodifica ISO-8859-1; cualquier otro valor asume UTF-8.
// Los tipos ya existentes se cuentan como omitidos; las filas inválidas se
// reportan y la importación continúa.
func (e *Evaluator) ImportRequirements(ctx context.Context, r io.Reader, encoding string) (*ImportReport, error) {
	switch strings.ToLower(encoding) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rep := &ImportReport{Errors: []string{}}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return rep, fmt.Errorf("leer CSV (línea %d): %w", line, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "document_type") {
			continue
		}
		desc := ""
		if len(rec) > 1 {
			desc = rec[1]
		}
		_, err = e.AddRequirement(ctx, entity.DocumentType(rec[0]), desc)
		switch {
		case err == nil:
			rep.Created++
		case errors.Is(err, domain.ErrDuplicate):
			rep.Skipped++
		case errors.Is(err, domain.ErrInvalidInput):
			rep.Errors = append(rep.Errors, fmt.Sprintf("línea %d: %v", line, err))
		default:
			return rep, err
		}
	}
	return rep, nil
}

// Package notify arma y envía los correos del flujo de onboarding.
// Los métodos devuelven el error de envío; cada llamador decide si es best-effort.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t any) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("02/01/2006")
		case *time.Time:
			if v == nil {
				return ""
			}
			return v.Format("02/01/2006")
		}
		return ""
	},
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

// Notifier renderiza plantillas HTML y delega el envío en un EmailSender.
type Notifier struct {
	sender  ports.EmailSender
	appName string
	pages   map[string]*template.Template
	log     zerolog.Logger
}

// New parsea las plantillas embebidas; falla solo si alguna es inválida.
func New(sender ports.EmailSender, appName string, log zerolog.Logger) (*Notifier, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{"welcome", "payment_link", "invoice_issued", "document_rejected", "document_pending_client", "renewal_reminder"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("plantilla %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Notifier{sender: sender, appName: appName, pages: pages, log: log}, nil
}

type view struct {
	AppName     string
	Company     *entity.Company
	Payment     *entity.Payment
	Invoice     *entity.Invoice
	Document    *entity.Document
	Reason      string
	DaysBefore  int
	RenewalDate time.Time
}

func (n *Notifier) send(ctx context.Context, page, subject string, v view, attachments ...ports.Attachment) error {
	if v.Company == nil || v.Company.Email == "" {
		return fmt.Errorf("empresa sin email de contacto")
	}
	v.AppName = n.appName
	var buf bytes.Buffer
	if err := n.pages[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	msg := ports.EmailMessage{
		To:          []string{v.Company.Email},
		Subject:     subject,
		HTMLBody:    buf.String(),
		Attachments: attachments,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("enviar %s: %w", page, err)
	}
	n.log.Debug().Str("company_id", v.Company.ID).Str("template", page).Msg("correo enviado")
	return nil
}

func (n *Notifier) Welcome(ctx context.Context, c *entity.Company) error {
	return n.send(ctx, "welcome", "Bienvenido: tu cuenta está activa", view{Company: c})
}

func (n *Notifier) PaymentLink(ctx context.Context, c *entity.Company, p *entity.Payment) error {
	return n.send(ctx, "payment_link", "Link de pago de onboarding", view{Company: c, Payment: p})
}

// InvoiceIssued adjunta el PDF de la factura.
func (n *Notifier) InvoiceIssued(ctx context.Context, c *entity.Company, inv *entity.Invoice, pdf []byte) error {
	att := ports.Attachment{
		FileName:    invoiceFileName(inv),
		ContentType: "application/pdf",
		Data:        pdf,
	}
	return n.send(ctx, "invoice_issued", "Factura "+inv.Number, view{Company: c, Invoice: inv}, att)
}

func (n *Notifier) DocumentRejected(ctx context.Context, c *entity.Company, d *entity.Document, reason string) error {
	return n.send(ctx, "document_rejected", "Documento rechazado: "+string(d.DocumentType), view{Company: c, Document: d, Reason: reason})
}

func (n *Notifier) DocumentPendingWithClient(ctx context.Context, c *entity.Company, d *entity.Document, reason string) error {
	return n.send(ctx, "document_pending_client", "Información requerida: "+string(d.DocumentType), view{Company: c, Document: d, Reason: reason})
}

func (n *Notifier) RenewalReminder(ctx context.Context, c *entity.Company, daysBefore int, renewalDate time.Time) error {
	subject := fmt.Sprintf("Tu contrato se renueva en %d días", daysBefore)
	return n.send(ctx, "renewal_reminder", subject, view{Company: c, DaysBefore: daysBefore, RenewalDate: renewalDate})
}

func invoiceFileName(inv *entity.Invoice) string {
	b := []byte(inv.Number)
	for i, ch := range b {
		if ch == '/' {
			b[i] = '-'
		}
	}
	return string(b) + ".pdf"
}

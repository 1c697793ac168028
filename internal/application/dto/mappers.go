package dto

import "github.com/jhoicas/onboarding-api/internal/domain/entity"

func FromCompany(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		LegalName:      c.LegalName,
		GSTIN:          c.GSTIN,
		StateCode:      c.StateCode,
		Address:        c.Address,
		Phone:          c.Phone,
		Email:          c.Email,
		Stage:          string(c.Stage),
		ActivationDate: c.ActivationDate,
		RenewalDate:    c.RenewalDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromDocument(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:              d.ID,
		CompanyID:       d.CompanyID,
		DocumentType:    string(d.DocumentType),
		Owner:           string(d.Owner),
		Status:          string(d.Status),
		Version:         d.Version,
		FileName:        d.FileName,
		MimeType:        d.MimeType,
		SizeBytes:       d.SizeBytes,
		RejectionReason: d.RejectionReason,
		ReviewNotes:     d.ReviewNotes,
		ReviewedBy:      d.ReviewedBy,
		ReviewedAt:      d.ReviewedAt,
		CreatedAt:       d.CreatedAt,
	}
}

func FromDocuments(docs []*entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out
}

func FromPayment(p *entity.Payment) PaymentResponse {
	out := PaymentResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Amount:      p.Amount.StringFixed(2),
		Currency:    p.Currency,
		Description: p.Description,
		Status:      string(p.Status),
		PaymentLink: p.PaymentLink,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}
	if p.ProviderPaymentID != nil {
		out.ProviderPaymentID = *p.ProviderPaymentID
	}
	return out
}

func FromPayments(list []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPayment(p))
	}
	return out
}

func FromInvoice(i *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		PaymentID:     i.PaymentID,
		CompanyID:     i.CompanyID,
		Number:        i.Number,
		FiscalYear:    i.FiscalYear,
		IssuedAt:      i.IssuedAt,
		TaxableAmount: i.TaxableAmount.StringFixed(2),
		CGST:          i.CGST.StringFixed(2),
		SGST:          i.SGST.StringFixed(2),
		IGST:          i.IGST.StringFixed(2),
		TotalAmount:   i.TotalAmount.StringFixed(2),
		Currency:      i.Currency,
		PlaceOfSupply: i.PlaceOfSupply,
		HasPDF:        i.PDFKey != "",
		EmailedAt:     i.EmailedAt,
	}
}

func FromInvoices(list []*entity.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, i := range list {
		out = append(out, FromInvoice(i))
	}
	return out
}

func FromRequirement(r *entity.ComplianceRequirement) RequirementResponse {
	return RequirementResponse{
		ID:           r.ID,
		DocumentType: string(r.DocumentType),
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
	}
}

package dto

import "time"

// PresignUploadRequest pide una URL firmada para subir un archivo.
type PresignUploadRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
	ContentType  string `json:"content_type"`
}

// PresignUploadResponse llave y URL PUT firmada.
type PresignUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmUploadRequest confirma una subida ya realizada al storage.
type ConfirmUploadRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	StorageKey   string `json:"storage_key" validate:"required"`
}

// ReviewRequest motivo o notas de una acción de revisión.
type ReviewRequest struct {
	Reason string `json:"reason"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	DocumentType    string     `json:"document_type"`
	Owner           string     `json:"owner"`
	Status          string     `json:"status"`
	Version         int        `json:"version"`
	FileName        string     `json:"file_name"`
	MimeType        string     `json:"mime_type,omitempty"`
	SizeBytes       int64      `json:"size_bytes"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DocumentListResponse lista de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// DownloadResponse URL GET firmada.
type DownloadResponse struct {
	URL string `json:"url"`
}

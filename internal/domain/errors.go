package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del flujo de onboarding. Todos salvo ErrInvalidSignature son errores
// del llamador (400); ErrInvalidSignature es el único rechazo duro del webhook (401).
var (
	ErrInvalidTransition    = errors.New("transición de etapa no permitida")
	ErrStageMismatch        = errors.New("la etapa actual de la empresa no permite esta operación")
	ErrOnboardingLocked     = errors.New("la empresa ya está activa; el onboarding está bloqueado")
	ErrActivationNotAllowed = errors.New("la empresa no cumple las condiciones de activación")
	ErrReviewReasonRequired = errors.New("se requiere un motivo para esta acción de revisión")
	ErrInvalidReviewTarget  = errors.New("el documento no puede ser revisado con esta acción")
	ErrComplianceIncomplete = errors.New("faltan documentos requeridos verificados")
	ErrInvalidSignature     = errors.New("firma del webhook inválida")
)

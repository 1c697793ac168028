// Package onboarding contiene las tablas puras del ciclo de vida de una empresa:
// el grafo de etapas y la máquina de estados de revisión de documentos.
package onboarding

import (
	"fmt"
	"strings"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// stageGraph es la única fuente de transiciones legales entre etapas.
var stageGraph = map[entity.Stage][]entity.Stage{
	entity.StageAdminCreated:            {entity.StagePaymentPending, entity.StagePendingDocuments, entity.StageRejected},
	entity.StagePendingDocuments:        {entity.StageDocumentsSubmitted, entity.StagePaymentPending, entity.StageRejected},
	entity.StageDocumentsSubmitted:      {entity.StageUnderReview, entity.StagePendingDocuments, entity.StageRejected},
	entity.StageUnderReview:             {entity.StagePaymentPending, entity.StagePendingDocuments, entity.StageCompleted, entity.StageRejected},
	entity.StagePaymentPending:          {entity.StagePaymentConfirmed, entity.StageRejected},
	entity.StagePaymentConfirmed:        {entity.StageKycInProgress, entity.StageRejected},
	entity.StageKycInProgress:           {entity.StageKycReview, entity.StageRejected},
	entity.StageKycReview:               {entity.StageKycInProgress, entity.StageAgreementDraftShared, entity.StageRejected},
	entity.StageAgreementDraftShared:    {entity.StageSignedAgreementReceived, entity.StageRejected},
	entity.StageSignedAgreementReceived: {entity.StageFinalAgreementShared, entity.StageRejected},
	entity.StageFinalAgreementShared:    {entity.StageActive, entity.StageRejected},
	entity.StageActive:                  {},
	entity.StageCompleted:               {},
	entity.StageRejected:                {entity.StagePendingDocuments},
}

// mainPath orden de las etapas en el camino principal de onboarding.
// COMPLETED y REJECTED quedan fuera del camino.
var mainPath = []entity.Stage{
	entity.StageAdminCreated,
	entity.StagePendingDocuments,
	entity.StageDocumentsSubmitted,
	entity.StageUnderReview,
	entity.StagePaymentPending,
	entity.StagePaymentConfirmed,
	entity.StageKycInProgress,
	entity.StageKycReview,
	entity.StageAgreementDraftShared,
	entity.StageSignedAgreementReceived,
	entity.StageFinalAgreementShared,
	entity.StageActive,
}

var allStages = append(append([]entity.Stage{}, mainPath...), entity.StageCompleted, entity.StageRejected)

// Successors devuelve una copia de las etapas alcanzables en un paso desde s.
func Successors(s entity.Stage) []entity.Stage {
	next := stageGraph[s]
	out := make([]entity.Stage, len(next))
	copy(out, next)
	return out
}

// CanTransition informa si to es sucesor directo de from.
func CanTransition(from, to entity.Stage) bool {
	for _, s := range stageGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal informa si la etapa no tiene sucesores (ACTIVE, COMPLETED).
func IsTerminal(s entity.Stage) bool {
	next, ok := stageGraph[s]
	return ok && len(next) == 0
}

// Rank posición de la etapa en el camino principal; -1 si está fuera de él.
func Rank(s entity.Stage) int {
	for i, st := range mainPath {
		if st == s {
			return i
		}
	}
	return -1
}

// AtOrPast informa si current alcanzó o superó target en el camino principal.
// Las etapas fuera del camino nunca cuentan como "pasadas".
func AtOrPast(current, target entity.Stage) bool {
	if current == target {
		return true
	}
	rc, rt := Rank(current), Rank(target)
	return rc >= 0 && rt >= 0 && rc > rt
}

// ParseStage convierte un texto (sin distinguir mayúsculas) en una etapa conocida.
func ParseStage(raw string) (entity.Stage, error) {
	s := entity.Stage(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := stageGraph[s]; !ok {
		return "", fmt.Errorf("etapa desconocida %q", raw)
	}
	return s, nil
}

// AllStages lista todas las etapas: primero el camino principal, luego COMPLETED y REJECTED.
func AllStages() []entity.Stage {
	out := make([]entity.Stage, len(allStages))
	copy(out, allStages)
	return out
}

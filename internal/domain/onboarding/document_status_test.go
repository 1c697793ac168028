package onboarding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/onboarding"
)

func TestCanChangeDocumentStatus(t *testing.T) {
	cases := []struct {
		name     string
		from, to entity.DocumentStatus
		want     bool
	}{
		{"subido a verificado", entity.DocStatusUploaded, entity.DocStatusVerified, true},
		{"subido a rechazado", entity.DocStatusUploaded, entity.DocStatusRejected, true},
		{"pendiente cliente a pendiente admin", entity.DocStatusPendingWithClient, entity.DocStatusPendingWithAdmin, true},
		{"pendiente admin repetido", entity.DocStatusPendingWithAdmin, entity.DocStatusPendingWithAdmin, true},
		{"verificado es final", entity.DocStatusVerified, entity.DocStatusRejected, false},
		{"rechazado es final", entity.DocStatusRejected, entity.DocStatusVerified, false},
		{"no se vuelve a subido", entity.DocStatusReviewPending, entity.DocStatusUploaded, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, onboarding.CanChangeDocumentStatus(tc.from, tc.to))
		})
	}
	assert.True(t, onboarding.IsFinalDocumentStatus(entity.DocStatusVerified))
	assert.False(t, onboarding.IsFinalDocumentStatus(entity.DocStatusUploaded))
}

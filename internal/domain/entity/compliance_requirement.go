package entity

import "time"

// ComplianceRequirement tipo de documento que toda empresa debe tener VERIFIED
// para considerarse en cumplimiento. Se mantiene de forma independiente a las empresas.
type ComplianceRequirement struct {
	ID           string
	DocumentType DocumentType
	Description  string
	CreatedAt    time.Time
}

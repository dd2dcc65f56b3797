package domain

// Severity ranks an Issue. Only CRITICAL and HIGH issues are auto-fixable by policy.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Severities lists every severity, most severe first
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// IsValid checks if the severity is one of the known values
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank orders severities; lower is more severe. Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// AutoFixable reports whether issues of this severity may be fixed without review
func (s Severity) AutoFixable() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// AtLeast reports whether s is as severe as other or more
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() <= other.Rank()
}

// CollectionType distinguishes rule-driven collections from curated ones
type CollectionType string

const (
	CollectionTypeSmart  CollectionType = "smart"
	CollectionTypeCustom CollectionType = "custom"
)

// IsValid checks if the collection type is valid
func (t CollectionType) IsValid() bool {
	return t == CollectionTypeSmart || t == CollectionTypeCustom
}

// AuditAction names a write recorded in the audit log
type AuditAction string

const (
	AuditActionCollectionPatch AuditAction = "collection_patch"
	AuditActionTagUpdate       AuditAction = "tag_update"
	AuditActionProductDraft    AuditAction = "product_draft"
	AuditActionTitleClean      AuditAction = "title_clean"
	AuditActionPriceUpdate     AuditAction = "price_update"
)

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rule is one smart-collection condition, in REST vocabulary (column "tag", relation "equals")
type Rule struct {
	Column    string `json:"column" yaml:"column"`
	Relation  string `json:"relation" yaml:"relation"`
	Condition string `json:"condition" yaml:"condition"`
}

// Collection is the live Shopify representation of a collection
type Collection struct {
	ID           int64
	GID          string
	Handle       string
	Title        string
	Type         CollectionType
	Rules        []Rule
	Disjunctive  bool
	SortOrder    string
	ProductCount int
}

// CollectionPatch carries only the fields that need to change. Nil fields are left alone.
type CollectionPatch struct {
	Disjunctive *bool   `json:"disjunctive,omitempty"`
	SortOrder   *string `json:"sort_order,omitempty"`
	Rules       []Rule  `json:"rules,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p CollectionPatch) IsEmpty() bool {
	return p.Disjunctive == nil && p.SortOrder == nil && p.Rules == nil
}

// TagFix is a tag-set patch: remove first, then add
type TagFix struct {
	Remove []string `json:"remove,omitempty"`
	Add    []string `json:"add,omitempty"`
}

// Issue is one finding of a validation or reconciliation pass
type Issue struct {
	Severity Severity               `json:"severity"`
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Subject  string                 `json:"subject,omitempty"` // product ID or collection handle
	Details  map[string]interface{} `json:"details,omitempty"`
	Fix      *TagFix                `json:"fix,omitempty"`
	Patch    *CollectionPatch       `json:"patch,omitempty"`
}

// Fixable reports whether the issue carries a patch of either kind
func (i Issue) Fixable() bool {
	return i.Fix != nil || (i.Patch != nil && !i.Patch.IsEmpty())
}

// Product is the subset of a Shopify product the tools read
type Product struct {
	ID          int64
	GID         string
	Title       string
	Handle      string
	Vendor      string
	ProductType string
	Status      string
	BodyHTML    string
	Tags        []string
	ImageCount  int
	Variants    []Variant
}

// Variant is a product variant with its price as the API returns it (decimal string)
type Variant struct {
	ID                int64
	GID               string
	SKU               string
	Title             string
	Price             string
	InventoryQuantity int
}

// Menu is a navigation menu
type Menu struct {
	Handle string
	Title  string
	Items  []MenuItem
}

// MenuItem is a menu link. ResourceID is a GID when the item links to a resource.
type MenuItem struct {
	Title      string
	Type       string
	ResourceID string
	URL        string
	Items      []MenuItem
}

// AuditEvent records one write performed by a tool run
type AuditEvent struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	Tool      string
	Subject   string
	Action    AuditAction
	Before    map[string]interface{}
	After     map[string]interface{}
	Success   bool
	Error     *string
	CreatedAt time.Time
}

// Run is one invocation of a tool
type Run struct {
	ID         uuid.UUID
	Tool       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Summary    map[string]interface{}
}

package domain

import "time"

// Event categories and levels.
const (
	EventCategoryCase    = "case"
	EventCategoryVariant = "variant"

	EventLevelSpecific = "specific"
	EventLevelGlobal   = "global"
)

// Event is one append-only audit record. Events are immutable except for
// comment content, which may be edited in place producing a comment_update
// event that references the original.
type Event struct {
	ID        string `json:"_id"`
	Institute string `json:"institute"`
	CaseID    string `json:"case"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Link      string `json:"link,omitempty"`
	Category  string `json:"category"`
	Verb      string `json:"verb"`
	Subject   string `json:"subject"`
	Level     string `json:"level"`

	// VariantID is the common variant id, set when Category is variant.
	VariantID string `json:"variant_id,omitempty"`
	Content   string `json:"content,omitempty"`

	PanelName string `json:"panel,omitempty"`
	HpoTerm   string `json:"hpo_term,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Evaluation captures one classification submission for a variant.
type Evaluation struct {
	ID                string                `json:"_id"`
	VariantID         string                `json:"variant_id"`
	VariantSpecificID string                `json:"variant_specific"`
	CaseID            string                `json:"case_id"`
	Institute         string                `json:"institute_id"`
	UserID            string                `json:"user_id"`
	UserName          string                `json:"user_name,omitempty"`
	Classification    string                `json:"classification"`
	Criteria          []EvaluationCriterion `json:"criteria,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// EvaluationCriterion is one applied criterion term within an evaluation.
// Term carries the optional strength modifier suffix, e.g. "PVS1_Moderate".
type EvaluationCriterion struct {
	Term    string   `json:"term"`
	Comment string   `json:"comment,omitempty"`
	Links   []string `json:"links,omitempty"`
}

// FilterAuditEntry is one immutable audit record on a saved filter.
type FilterAuditEntry struct {
	UserName  string    `json:"user_name"`
	CaseID    string    `json:"case"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter is a named, institute-scoped saved filter. A non-empty LockHolder
// makes the filter read-only for everyone else.
type Filter struct {
	ID          string              `json:"_id"`
	Institute   string              `json:"institute_id"`
	Category    Category            `json:"category"`
	DisplayName string              `json:"display_name"`
	Payload     map[string][]string `json:"filters"`
	LockHolder  string              `json:"lock,omitempty"`
	AuditTrail  []FilterAuditEntry  `json:"audits,omitempty"`
	CreatedAt   time.Time           `json:"created_at,omitempty"`
}

// Locked reports whether the filter is locked.
func (f *Filter) Locked() bool { return f.LockHolder != "" }

// EditableBy reports whether the user may edit or delete the filter.
func (f *Filter) EditableBy(userID string) bool {
	return f.LockHolder == "" || f.LockHolder == userID
}

package domain

import "time"

// Institute is the tenant unit: cases, users, saved filters and observation
// service bindings are all scoped by institute.
type Institute struct {
	ID               string   `json:"_id"`
	DisplayName      string   `json:"display_name"`
	Collaborators    []string `json:"collaborators,omitempty"`
	SangerRecipients []string `json:"sanger_recipients,omitempty"`

	CoverageCutoff  int     `json:"coverage_cutoff,omitempty"`
	FrequencyCutoff float64 `json:"frequency_cutoff,omitempty"`

	GenePanels map[string]string `json:"gene_panels,omitempty"`

	// Ordered logical ids of the configured allele-observation instances.
	LoqusIDs []string `json:"loqusdb_id,omitempty"`

	ClinVarKey        string `json:"clinvar_key,omitempty"`
	AlamutKey         string `json:"alamut_key,omitempty"`
	AlamutInstitution string `json:"alamut_institution,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// User is an account. The email is the identity.
type User struct {
	ID         string    `json:"_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Roles      []string  `json:"roles,omitempty"`
	Institutes []string  `json:"institutes,omitempty"`
	AccessedAt time.Time `json:"accessed_at,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// User roles drawn from a fixed vocabulary.
const (
	RoleAdmin           = "admin"
	RoleMMESubmitter    = "mme_submitter"
	RoleBeaconSubmitter = "beacon_submitter"
)

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// MemberOf reports whether the user belongs to the institute.
func (u *User) MemberOf(institute string) bool {
	for _, i := range u.Institutes {
		if i == institute {
			return true
		}
	}
	return false
}

package members

// RoleType represents a role granted to a member by the backend.
type RoleType string

const (
	RoleAdmin  RoleType = "ADMIN"  // Can review, approve and reject pending registrations
	RoleMember RoleType = "MEMBER" // Regular portal member
)

// Account status values as issued inside the access token.
const (
	StatusActive    = "ACTIVE"
	StatusPending   = "PENDING"
	StatusSuspended = "SUSPENDED"
)

// Profile is the cached view of a member that the portal keeps alongside the
// credential bundle. Display fields come from the identity token (or the
// backend profile endpoint); Roles and Status always come from the access
// token, which is the authorization source of truth.
type Profile struct {
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email"`
	Roles       []RoleType `json:"roles,omitempty"`
	Status      string     `json:"status,omitempty"`
	MemberSince string     `json:"memberSince,omitempty"`
	State       string     `json:"state,omitempty"`
}

// HasRole reports whether the profile carries the given role.
func (p *Profile) HasRole(role RoleType) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// Clone returns a deep copy so callers cannot mutate cached state through
// the returned pointer.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Roles != nil {
		cp.Roles = append([]RoleType(nil), p.Roles...)
	}
	return &cp
}

// Address is a postal address submitted during registration.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Contact is a phone or alternate contact channel submitted during registration.
type Contact struct {
	Type  string `json:"type"` // "phone", "mobile", ...
	Value string `json:"value"`
}

// Registration is the body of the public registration call.
type Registration struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	DateOfBirth string    `json:"dateOfBirth"`
	Addresses   []Address `json:"addresses,omitempty"`
	Contacts    []Contact `json:"contacts,omitempty"`
}

// Package models defines the client-side data models exchanged with the
// jobswipe backend and kept in local state.
package models

import "time"

// Role is the account type of a user.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// Preferences are the candidate's job-search constraints.
type Preferences struct {
	Locations       []string `json:"locations,omitempty"`
	EmploymentTypes []string `json:"employment_types,omitempty"`
	WorkModes       []string `json:"work_modes,omitempty"`
	MinSalary       int      `json:"min_salary,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// LinkedAccount is an OAuth identity attached to the user.
type LinkedAccount struct {
	Provider string `json:"provider"`
	Email    string `json:"email,omitempty"`
}

// User is the authenticated identity. Onboarding gates access to the main
// routes until the profile is completed.
type User struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	Onboarding bool      `json:"onboarding"`

	IntentText     string          `json:"intent_text,omitempty"`
	Preferences    *Preferences    `json:"preferences,omitempty"`
	LinkedAccounts []LinkedAccount `json:"linked_accounts,omitempty"`
}

// Clone returns a deep copy of u, so a stored user can never be mutated
// through a shared slice or pointer.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Preferences != nil {
		p := *u.Preferences
		p.Locations = append([]string(nil), u.Preferences.Locations...)
		p.EmploymentTypes = append([]string(nil), u.Preferences.EmploymentTypes...)
		p.WorkModes = append([]string(nil), u.Preferences.WorkModes...)
		p.Skills = append([]string(nil), u.Preferences.Skills...)
		c.Preferences = &p
	}
	if u.LinkedAccounts != nil {
		c.LinkedAccounts = append([]LinkedAccount(nil), u.LinkedAccounts...)
	}
	return &c
}

// UserPatch carries a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Role           *Role           `json:"role,omitempty"`
	Name           *string         `json:"name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	PhotoURL       *string         `json:"photo_url,omitempty"`
	Onboarding     *bool           `json:"onboarding,omitempty"`
	IntentText     *string         `json:"intent_text,omitempty"`
	Preferences    *Preferences    `json:"preferences,omitempty"`
	LinkedAccounts []LinkedAccount `json:"linked_accounts,omitempty"`
	// LinkAccount is appended to the linked accounts unless its provider is
	// already there. Applied after LinkedAccounts.
	LinkAccount *LinkedAccount `json:"-"`
}

// Apply returns a new User with the patch merged over u. u itself is not
// modified.
func (p UserPatch) Apply(u *User) *User {
	out := u.Clone()
	if out == nil {
		out = &User{}
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.PhotoURL != nil {
		out.PhotoURL = *p.PhotoURL
	}
	if p.Onboarding != nil {
		out.Onboarding = *p.Onboarding
	}
	if p.IntentText != nil {
		out.IntentText = *p.IntentText
	}
	if p.Preferences != nil {
		out.Preferences = (&User{Preferences: p.Preferences}).Clone().Preferences
	}
	if p.LinkedAccounts != nil {
		out.LinkedAccounts = append([]LinkedAccount(nil), p.LinkedAccounts...)
	}
	if p.LinkAccount != nil && !out.HasProvider(p.LinkAccount.Provider) {
		out.LinkedAccounts = append(out.LinkedAccounts, *p.LinkAccount)
	}
	return out
}

// HasProvider reports whether an identity from provider is linked.
func (u *User) HasProvider(provider string) bool {
	if u == nil {
		return false
	}
	for _, la := range u.LinkedAccounts {
		if la.Provider == provider {
			return true
		}
	}
	return false
}

// Session is the persisted authentication state.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// IsAuthenticated requires both a token and a user; half a session is no
// session.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// AuthResponse is returned by the OAuth callback exchange.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LinkProviderResponse is returned when attaching another OAuth provider.
type LinkProviderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

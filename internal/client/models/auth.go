package models

// Role is the staff role attached to a user account. Values outside the
// known set are representable so unknown roles can be routed fail-safe.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
)

// Known reports whether r is one of the roles the service defines.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// CredentialPair holds the opaque bearer credentials issued by the service.
type CredentialPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the authenticated identity returned by auth/me/ and auth/login/.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// LoginRequest is the auth/login/ payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionData is the auth/login/ response.
type SessionData struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// Credentials extracts the pair to persist.
func (s *SessionData) Credentials() CredentialPair {
	return CredentialPair{Access: s.Access, Refresh: s.Refresh}
}

// SignupRequest registers a staff account. Doctors must supply a license
// number; receptionists may supply a desk number.
type SignupRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Role          Role   `json:"role"`
	Specialty     string `json:"specialty,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	DeskNumber    string `json:"desk_number,omitempty"`
}

// RefreshRequest is the body of both auth/token/refresh/ and auth/logout/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is the auth/token/refresh/ response. Refresh is only set
// when the service rotates refresh credentials.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

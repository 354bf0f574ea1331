package models

import "time"

// Plan tiers. The tier governs the server quota and the specs allocated to
// newly created servers.
const (
	PlanFree       = "free"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// User represents an account record.
type User struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Password  string         `json:"-"` // bcrypt hash, never serialize
	Plan      string         `json:"plan"`
	Coins     int            `json:"coins"`
	Avatar    string         `json:"avatar"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	LastLogin time.Time      `json:"last_login,omitempty"`
}

// ServerLimit returns the maximum number of servers the user's plan allows.
func (u *User) ServerLimit() int {
	switch u.Plan {
	case PlanPremium:
		return 10
	case PlanEnterprise:
		return 50
	default:
		return 3
	}
}

// ValidPlan reports whether p names a known plan tier.
func ValidPlan(p string) bool {
	return p == PlanFree || p == PlanPremium || p == PlanEnterprise
}

// SignupRequest is the JSON body for POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login. The email field
// doubles as the identifier and may carry a username instead.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotRequest is the JSON body for POST /api/auth/forgot.
type ForgotRequest struct {
	Email string `json:"email"`
}

// UpgradeRequest is the JSON body for POST /api/billing/upgrade.
type UpgradeRequest struct {
	Plan string `json:"plan"`
}

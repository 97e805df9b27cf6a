package domain

import "time"

// Role is a user's access role.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Company is the organisation a user belongs to. ExpiredAt marks the end of
// the company's subscription; users of an expired company cannot sign in.
type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	ExpiredAt *time.Time `json:"expired_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// CompanyDetail carries the optional profile attached to a company.
type CompanyDetail struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Logo        string `json:"logo"`
	SPR         string `json:"spr"`
	SPKMandor   string `json:"spk_mandor"`
}

// User is an account that can authenticate against the service.
//
// SuspendedAt and DeletedAt are soft markers: a suspended user is invisible
// to email lookups, a deleted user is still found but rejected at sign-in.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified"`
	PhoneNumber     string     `json:"phone_number"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Company         *Company   `json:"company,omitempty"`
	SuspendedAt     *time.Time `json:"suspended_at"`
	DeletedAt       *time.Time `json:"deleted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsDeleted reports whether the account has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// CompanyExpired reports whether the user's company subscription has lapsed.
// Users without a company are never expired.
func (u *User) CompanyExpired(now time.Time) bool {
	if u.Company == nil || u.Company.ExpiredAt == nil {
		return false
	}
	return u.Company.ExpiredAt.Before(now)
}

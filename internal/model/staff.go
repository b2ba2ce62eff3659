package model

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// StaffRole is a staff member's permission level.
type StaffRole string

const (
	StaffAdmin   StaffRole = "admin"
	StaffCashier StaffRole = "cashier"
	StaffServer  StaffRole = "server"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	return r == StaffAdmin || r == StaffCashier || r == StaffServer
}

// staffIDPattern keeps ids usable as token subjects and URL segments.
var staffIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// Staff is a person allowed to use the tills. ID is the subject of their tokens.
type Staff struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Role      StaffRole  `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the fields staff members are created and edited with.
func (s *Staff) Validate() error {
	if !staffIDPattern.MatchString(s.ID) {
		return fmt.Errorf("%w: id must be lowercase letters, digits, dot, dash or underscore", ErrInvalidStaff)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStaff)
	}
	if !s.Role.Valid() {
		return fmt.Errorf("%w: role must be admin, cashier or server", ErrInvalidStaff)
	}
	if s.Email != "" {
		if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
			return fmt.Errorf("%w: email is not a valid address", ErrInvalidStaff)
		}
	}
	return nil
}

package model

import (
	"database/sql/driver"
	"fmt"
)

// SwapStatus represents the state of a swap request.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s SwapStatus) Terminal() bool {
	return s.Valid() && s != SwapStatusPending
}

// Value implements driver.Valuer.
func (s SwapStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid swap status %q", string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *SwapStatus) Scan(src interface{}) error {
	v, err := scanString(src)
	if err != nil {
		return err
	}
	if !SwapStatus(v).Valid() {
		return fmt.Errorf("invalid swap status %q", v)
	}
	*s = SwapStatus(v)
	return nil
}

// SkillDirection tags a user skill as offered or wanted.
type SkillDirection string

const (
	SkillOffered SkillDirection = "offered"
	SkillWanted  SkillDirection = "wanted"
)

// Valid reports whether d is a known direction.
func (d SkillDirection) Valid() bool {
	return d == SkillOffered || d == SkillWanted
}

// Value implements driver.Valuer.
func (d SkillDirection) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid skill direction %q", string(d))
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *SkillDirection) Scan(src interface{}) error {
	v, err := scanString(src)
	if err != nil {
		return err
	}
	if !SkillDirection(v).Valid() {
		return fmt.Errorf("invalid skill direction %q", v)
	}
	*d = SkillDirection(v)
	return nil
}

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %q", string(r))
	}
	return string(r), nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src interface{}) error {
	v, err := scanString(src)
	if err != nil {
		return err
	}
	if !Role(v).Valid() {
		return fmt.Errorf("invalid role %q", v)
	}
	*r = Role(v)
	return nil
}

// Visibility controls whether a profile appears in search and exposes its feedback.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Value implements driver.Valuer.
func (v Visibility) Value() (driver.Value, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid visibility %q", string(v))
	}
	return string(v), nil
}

// Scan implements sql.Scanner.
func (v *Visibility) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	if !Visibility(s).Valid() {
		return fmt.Errorf("invalid visibility %q", s)
	}
	*v = Visibility(s)
	return nil
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}

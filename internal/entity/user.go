package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type User struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"nombres"`
	LastName  string  `json:"apellidos"`
	Phone     string  `json:"telefono,omitempty"`
	Address   string  `json:"direccion,omitempty"`
	UnitID    *int64  `json:"vivienda,omitempty"`
	Roles     RoleSet `json:"roles"`
	Active    Status  `json:"estado"`
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}

	return name
}

func (u User) IsOwner() bool {
	return u.Roles.Has(RoleOwner)
}

// Status is the backend "estado" field, sent either as a boolean or as
// "activo"/"inactivo".
type Status bool

func (s *Status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*s = Status(v)
		return nil
	}

	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("decode estado: %w", err)
	}

	switch strings.ToLower(str) {
	case "activo", "active", "true", "1":
		*s = true
	case "inactivo", "inactive", "false", "0", "":
		*s = false
	default:
		return fmt.Errorf("%w: unknown estado %q", ErrInvalidArgument, str)
	}

	return nil
}

// ProfileUpdate is a partial update of a user record. Nil fields are left
// untouched by the backend.
type ProfileUpdate struct {
	FirstName *string `json:"nombres,omitempty"`
	LastName  *string `json:"apellidos,omitempty"`
	Phone     *string `json:"telefono,omitempty"`
	Address   *string `json:"direccion,omitempty"`
	UnitID    *int64  `json:"vivienda,omitempty"`
	Active    *bool   `json:"estado,omitempty"`
	Roles     RoleSet `json:"roles,omitempty"`
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Address == nil &&
		p.UnitID == nil && p.Active == nil && len(p.Roles) == 0
}

// FindOwners returns every roster entry holding the owner role, in list order.
func FindOwners(roster []User) []User {
	var owners []User

	for _, u := range roster {
		if u.IsOwner() {
			owners = append(owners, u)
		}
	}

	return owners
}

func FindUser(roster []User, id int64) (User, bool) {
	for _, u := range roster {
		if u.ID == id {
			return u, true
		}
	}

	return User{}, false
}

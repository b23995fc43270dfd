package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Role is the closed set of roles known by the backend. The numeric value is
// the backend role id.
type Role int

const (
	RoleUnknown       Role = 0
	RoleAdministrator Role = 1
	RoleSecurity      Role = 2
	RoleOwner         Role = 3
	RoleTenant        Role = 4
)

var roleNames = map[Role]string{
	RoleAdministrator: "administrador",
	RoleSecurity:      "seguridad",
	RoleOwner:         "copropietario",
	RoleTenant:        "inquilino",
}

func (r Role) ID() int {
	return int(r)
}

func (r Role) String() string {
	name, ok := roleNames[r]
	if !ok {
		return "desconocido"
	}

	return name
}

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func RoleFromID(id int) (Role, error) {
	r := Role(id)
	if !r.IsValid() {
		return RoleUnknown, fmt.Errorf("%w: unknown role id %d", ErrInvalidArgument, id)
	}

	return r, nil
}

// ParseRole accepts a backend role name or its numeric id.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}

	if id, err := strconv.Atoi(s); err == nil {
		return RoleFromID(id)
	}

	return RoleUnknown, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var id int
	if err := json.Unmarshal(b, &id); err == nil {
		parsed, err := RoleFromID(id)
		if err != nil {
			return err
		}

		*r = parsed

		return nil
	}

	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("decode role: %w", err)
	}

	parsed, err := ParseRole(name)
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

// RoleSet is the backend "roles" field. The backend answers either with ids
// or with role objects; both are accepted.
type RoleSet []Role

type roleObject struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Name   string `json:"name"`
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode roles: %w", err)
	}

	roles := make(RoleSet, 0, len(raw))

	for _, item := range raw {
		var obj roleObject

		var r Role

		if err := json.Unmarshal(item, &obj); err == nil && (obj.ID != 0 || obj.Nombre != "" || obj.Name != "") {
			var err error

			switch {
			case obj.ID != 0:
				r, err = RoleFromID(obj.ID)
			case obj.Nombre != "":
				r, err = ParseRole(obj.Nombre)
			default:
				r, err = ParseRole(obj.Name)
			}

			if err != nil {
				return err
			}
		} else if err := r.UnmarshalJSON(item); err != nil {
			return err
		}

		roles = append(roles, r)
	}

	*s = roles

	return nil
}

// MarshalJSON encodes the set as role ids, the shape the backend accepts on PATCH.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	ids := make([]int, 0, len(s))
	for _, r := range s {
		ids = append(ids, r.ID())
	}

	return json.Marshal(ids)
}

func (s RoleSet) Has(r Role) bool {
	return slices.Contains(s, r)
}

// Primary returns the highest-privilege role of the set.
func (s RoleSet) Primary() Role {
	primary := RoleUnknown

	for _, r := range s {
		if primary == RoleUnknown || r < primary {
			primary = r
		}
	}

	return primary
}

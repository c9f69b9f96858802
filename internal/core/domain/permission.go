package domain

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Action names a permission-checked operation.
type Action string

// Coarse actions are resolved through the PermissionTable.
const (
	ActionManageUsers     Action = "manage_users"
	ActionManageTasks     Action = "manage_tasks"
	ActionManageSettings  Action = "manage_settings"
	ActionValidateReports Action = "validate_reports"
)

// Targeted actions are resolved through the user-management rules.
const (
	ActionChangeRole Action = "change_role"
	ActionDeleteUser Action = "delete_user"
)

// TableActions lists the actions stored in the permission table.
var TableActions = []Action{ActionManageUsers, ActionManageTasks, ActionManageSettings, ActionValidateReports}

// ParseAction validates a table action name.
func ParseAction(s string) (Action, error) {
	for _, a := range TableActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

//go:embed permissions.yaml
var defaultPermissions []byte

// PermissionTable maps (role, action) to allowed. Missing entries deny.
type PermissionTable map[Role]map[Action]bool

// PermissionEntry is one row of the table.
type PermissionEntry struct {
	Role    Role   `json:"role" bson:"role" yaml:"role"`
	Action  Action `json:"action" bson:"action" yaml:"action"`
	Allowed bool   `json:"allowed" bson:"allowed" yaml:"allowed"`
}

// DefaultPermissionTable returns the table shipped with the binary.
func DefaultPermissionTable() PermissionTable {
	t, err := ParsePermissionTable(defaultPermissions)
	if err != nil {
		panic(fmt.Sprintf("domain: embedded permissions.yaml: %v", err))
	}
	return t
}

// ParsePermissionTable decodes a YAML document of the form
// role: {action: bool}. Role names must be canonical and super_admin may not
// appear.
func ParsePermissionTable(data []byte) (PermissionTable, error) {
	var raw map[string]map[string]bool
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse permission table: %w", err)
	}
	t := PermissionTable{}
	for roleName, actions := range raw {
		role := Role(roleName)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, roleName)
		}
		if role.IsSuperAdmin() {
			return nil, fmt.Errorf("permission table: %s bypasses the table and cannot be configured", role)
		}
		t[role] = map[Action]bool{}
		for name, allowed := range actions {
			a, err := ParseAction(name)
			if err != nil {
				return nil, err
			}
			t[role][a] = allowed
		}
	}
	return t, nil
}

// FromEntries builds a table from persisted rows.
func FromEntries(entries []PermissionEntry) PermissionTable {
	t := PermissionTable{}
	for _, e := range entries {
		t.Set(e.Role, e.Action, e.Allowed)
	}
	return t
}

// Entries flattens the table in role then action order.
func (t PermissionTable) Entries() []PermissionEntry {
	out := make([]PermissionEntry, 0)
	for role, actions := range t {
		for action, allowed := range actions {
			out = append(out, PermissionEntry{Role: role, Action: action, Allowed: allowed})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// Set records an entry.
func (t PermissionTable) Set(role Role, action Action, allowed bool) {
	if t[role] == nil {
		t[role] = map[Action]bool{}
	}
	t[role][action] = allowed
}

// Allowed looks up a coarse action. SuperAdmin is always allowed; everyone
// else needs an explicit true entry.
func (t PermissionTable) Allowed(role Role, action Action) bool {
	if role.IsSuperAdmin() {
		return true
	}
	return t[role][action]
}

// CanManageUser applies the role-change and deletion rules:
//   - nobody may target themselves;
//   - SuperAdmin may act on any other user;
//   - a Director of either tier may act only on employees and Unassigned users;
//   - employees and Unassigned users may not act on anyone.
func CanManageUser(actor Actor, target User) bool {
	if actor.ID != "" && actor.ID == target.ID {
		return false
	}
	switch {
	case actor.Role.IsSuperAdmin():
		return true
	case actor.Role.IsDirector():
		return target.Role.IsEmployee() || target.Role.IsUnassigned()
	}
	return false
}

// CanAssignRole restricts which role an actor may grant. Only SuperAdmin may
// grant a director tier or SuperAdmin; Directors hand out employee functions
// or Unassigned.
func CanAssignRole(actor Role, newRole Role) bool {
	if !newRole.Valid() {
		return false
	}
	switch {
	case actor.IsSuperAdmin():
		return true
	case actor.IsDirector():
		return newRole.IsEmployee() || newRole.IsUnassigned()
	}
	return false
}

// CanPerform is the single permission gate. Targeted actions need a target
// and follow CanManageUser; coarse actions are looked up in the table.
func CanPerform(table PermissionTable, actor Actor, action Action, target *User) bool {
	switch action {
	case ActionChangeRole, ActionDeleteUser:
		if target == nil {
			return false
		}
		return CanManageUser(actor, *target)
	case ActionManageUsers, ActionManageTasks, ActionManageSettings, ActionValidateReports:
		return table.Allowed(actor.Role, action)
	}
	return false
}

package domain

import "strings"

// Role is the canonical role enumeration. Legacy role strings are mapped onto
// it by ParseRole; anything unrecognised becomes RoleUnassigned.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"

	// Directors. Both tiers classify as director for permission purposes.
	RoleDirector            Role = "director"
	RoleOperationalDirector Role = "operational_director"

	// Employee job functions.
	RoleGraphicDesigner       Role = "graphic_designer"
	RoleVideographer          Role = "videographer"
	RoleCopywriter            Role = "copywriter"
	RoleSocialMediaSpecialist Role = "social_media_specialist"
	RoleGeneralStaff          Role = "general_staff"

	RoleUnassigned Role = "unassigned"
)

// Roles lists every canonical role, highest privilege first.
var Roles = []Role{
	RoleSuperAdmin,
	RoleDirector,
	RoleOperationalDirector,
	RoleGraphicDesigner,
	RoleVideographer,
	RoleCopywriter,
	RoleSocialMediaSpecialist,
	RoleGeneralStaff,
	RoleUnassigned,
}

// legacyRoles maps display names from both historical taxonomies (the
// Indonesian job titles and the generic admin/leader/member scheme) to the
// canonical role. Keys are lower-cased.
var legacyRoles = map[string]Role{
	"super admin":             RoleSuperAdmin,
	"superadmin":              RoleSuperAdmin,
	"administrator":           RoleSuperAdmin,
	"direktur utama":          RoleDirector,
	"direktur":                RoleDirector,
	"direktur operasional":    RoleOperationalDirector,
	"team leader":             RoleOperationalDirector,
	"desainer grafis":         RoleGraphicDesigner,
	"graphic designer":        RoleGraphicDesigner,
	"videografer":             RoleVideographer,
	"videographer":            RoleVideographer,
	"copywriter":              RoleCopywriter,
	"penulis konten":          RoleCopywriter,
	"spesialis media sosial":  RoleSocialMediaSpecialist,
	"social media specialist": RoleSocialMediaSpecialist,
	"staf umum":               RoleGeneralStaff,
	"team member":             RoleGeneralStaff,
	"belum ditentukan":        RoleUnassigned,
	"unassigned":              RoleUnassigned,
}

// ParseRole maps a canonical or legacy role string to a Role. The boolean is
// false when the value was not recognised, in which case RoleUnassigned is
// returned so the record stays usable at the lowest privilege.
func ParseRole(s string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return RoleUnassigned, false
	}
	for _, r := range Roles {
		if string(r) == key {
			return r, true
		}
	}
	if r, ok := legacyRoles[key]; ok {
		return r, true
	}
	if r, ok := legacyRoles[strings.ReplaceAll(key, "_", " ")]; ok {
		return r, true
	}
	return RoleUnassigned, false
}

// NormalizeRole is ParseRole without the recognition flag.
func NormalizeRole(s string) Role {
	r, _ := ParseRole(s)
	return r
}

// Valid reports whether r is a member of the canonical enumeration.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsEmployee is true for the five employee job functions only. Unassigned is
// not an employee: the employees-only leaderboard must not include users who
// never had a role assigned.
func (r Role) IsEmployee() bool {
	switch r {
	case RoleGraphicDesigner, RoleVideographer, RoleCopywriter, RoleSocialMediaSpecialist, RoleGeneralStaff:
		return true
	}
	return false
}

// IsDirector is true for either director tier.
func (r Role) IsDirector() bool {
	return r == RoleDirector || r == RoleOperationalDirector
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

func (r Role) IsUnassigned() bool {
	return r == RoleUnassigned
}

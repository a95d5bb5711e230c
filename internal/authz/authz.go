package authz

// Package authz holds the pure authorization policy: role membership tests,
// the capability table, and the single role-priority order shared by routing
// and display. No state, no I/O.

import (
	domainauth "github.com/car4rent/authkit/internal/domain/auth"
)

// Route identifies a landing page in the UI shell.
type Route string

const (
	RouteAdminUsers  Route = "/admin/users"
	RouteBookkeeping Route = "/rents"
	RouteCars        Route = "/cars"
	RouteRentals     Route = "/rentals"
	RouteDashboard   Route = "/"
)

// rolePriority orders roles for homeRoute/label decisions: administrative
// roles outrank operational ones when a user holds more than one. This is
// the only place where role priority (not mere membership) matters.
var rolePriority = []domainauth.Role{
	domainauth.RoleAdmin,
	domainauth.RoleAccountant,
	domainauth.RoleOwner,
	domainauth.RoleRenter,
}

var roleRoutes = map[domainauth.Role]Route{
	domainauth.RoleAdmin:      RouteAdminUsers,
	domainauth.RoleAccountant: RouteBookkeeping,
	domainauth.RoleOwner:      RouteCars,
	domainauth.RoleRenter:     RouteRentals,
}

var roleLabels = map[domainauth.Role]string{
	domainauth.RoleAdmin:      "Administrator",
	domainauth.RoleAccountant: "Accountant",
	domainauth.RoleOwner:      "Owner",
	domainauth.RoleRenter:     "Renter",
}

// HasRole reports whether the identity holds the given role.
func HasRole(id domainauth.Identity, role domainauth.Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity holds at least one of the roles.
func HasAnyRole(id domainauth.Identity, roles ...domainauth.Role) bool {
	for _, role := range roles {
		if HasRole(id, role) {
			return true
		}
	}
	return false
}

// HasAllRoles reports whether the identity holds every one of the roles.
func HasAllRoles(id domainauth.Identity, roles ...domainauth.Role) bool {
	for _, role := range roles {
		if !HasRole(id, role) {
			return false
		}
	}
	return true
}

// Capability predicates. Each is evaluated against the full role set,
// never against a single "primary" role.

// CanManageUsers is reserved for administrators.
func CanManageUsers(id domainauth.Identity) bool {
	return HasRole(id, domainauth.RoleAdmin)
}

// CanManageCars allows maintaining the car fleet.
func CanManageCars(id domainauth.Identity) bool {
	return HasAnyRole(id, domainauth.RoleAdmin, domainauth.RoleOwner)
}

// CanRentCars allows placing rentals.
func CanRentCars(id domainauth.Identity) bool {
	return HasAnyRole(id, domainauth.RoleAdmin, domainauth.RoleRenter)
}

// CanViewBookkeeping allows reading the financial records.
func CanViewBookkeeping(id domainauth.Identity) bool {
	return HasAnyRole(id, domainauth.RoleAdmin, domainauth.RoleAccountant)
}

// primaryRole returns the highest-priority role the identity holds.
func primaryRole(id domainauth.Identity) (domainauth.Role, bool) {
	for _, role := range rolePriority {
		if HasRole(id, role) {
			return role, true
		}
	}
	return "", false
}

// HomeRouteFor picks the landing route for an identity by role priority.
// Identities with no recognized role land on the generic dashboard.
func HomeRouteFor(id domainauth.Identity) Route {
	role, ok := primaryRole(id)
	if !ok {
		return RouteDashboard
	}
	return roleRoutes[role]
}

// DisplayLabel names the identity's primary role for presentation.
// It uses the same priority order as HomeRouteFor so navigation and
// labeling never disagree about who the user "mainly" is.
func DisplayLabel(id domainauth.Identity) string {
	role, ok := primaryRole(id)
	if !ok {
		return "User"
	}
	return roleLabels[role]
}

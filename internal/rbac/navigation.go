package rbac

import (
	"strings"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/view"
)

// NavItem is a sidebar entry with the roles allowed to see it. Empty Roles
// means every signed-in user.
type NavItem struct {
	Label string
	Href  string
	Roles []auth.Role
}

// AdminRoles may see organization administration views.
var AdminRoles = []auth.Role{auth.RoleSuperAdmin, auth.RoleCompanyAdmin}

// NavItems is the full sidebar in display order.
var NavItems = []NavItem{
	{Label: "Dashboard", Href: "/"},
	{Label: "Warehouses", Href: "/warehouses"},
	{Label: "Inventory", Href: "/inventory"},
	{Label: "Purchase Orders", Href: "/purchase-orders"},
	{Label: "Products", Href: "/products"},
	{Label: "Vendors", Href: "/vendors"},
	{Label: "Users", Href: "/users", Roles: AdminRoles},
	{Label: "Settings", Href: "/settings"},
}

// Navigation returns the entries visible to role, marking the one that owns
// currentPath as active. Hidden entries are omitted, not disabled.
func Navigation(role auth.Role, currentPath string) []view.NavLink {
	links := make([]view.NavLink, 0, len(NavItems))
	for _, item := range NavItems {
		if !roleAllowed(role, item.Roles) {
			continue
		}
		links = append(links, view.NavLink{
			Label:  item.Label,
			Href:   item.Href,
			Active: isActive(item.Href, currentPath),
		})
	}
	return links
}

func isActive(href, current string) bool {
	if href == "/" {
		return current == "/"
	}
	return current == href || strings.HasPrefix(current, href+"/")
}

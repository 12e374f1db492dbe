package dashboard

import "rentcar/internal/domain"

var (
	userDrawer = []DrawerItem{
		{ID: "cars", Name: "Cars", Link: "cars"},
		{ID: "bookings", Name: "Bookings", Link: "bookings"},
		{ID: "profile", Name: "Profile", Link: "profile"},
		{ID: "analytics", Name: "Analytics", Link: "analytics"},
	}
	adminDrawer = []DrawerItem{
		{ID: "users", Name: "Users", Link: "users"},
		{ID: "cars", Name: "Cars", Link: "cars"},
		{ID: "profile", Name: "Profile", Link: "profile"},
		{ID: "analytics", Name: "Analytics", Link: "analytics"},
	}
)

// Drawer returns the navigation of a shell with links resolved under its
// base path, e.g. /admin/dashboard/users.
func Drawer(role domain.Role) []DrawerItem {
	src, base := userDrawer, "/user/dashboard/"
	if role == domain.RoleAdmin {
		src, base = adminDrawer, "/admin/dashboard/"
	}
	out := make([]DrawerItem, len(src))
	for i, item := range src {
		item.Link = base + item.Link
		out[i] = item
	}
	return out
}

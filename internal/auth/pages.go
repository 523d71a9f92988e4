package auth

import "github.com/zhouzirui/orgchat/backend/internal/model/user"

// Page is a navigable area of the UI and the roles allowed to open it.
type Page struct {
	Name  string      `json:"name"`
	Path  string      `json:"path"`
	Label string      `json:"label"`
	Roles []user.Role `json:"-"`
}

const (
	PageChat  = "chat"
	PageAdmin = "admin"
)

// Pages is the single table both route gating and navigation read.
var Pages = []Page{
	{Name: PageChat, Path: "/chat", Label: "Chat", Roles: []user.Role{user.RoleEmployee, user.RoleManager, user.RoleHR}},
	{Name: PageAdmin, Path: "/admin", Label: "Admin", Roles: []user.Role{user.RoleAdmin}},
}

// PageByName looks a page up.
func PageByName(name string) (Page, bool) {
	for _, p := range Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

// CanAccess reports whether role may open page.
func (p Page) CanAccess(role user.Role) bool {
	return role.In(p.Roles...)
}

// Navigation lists the pages u may open, in table order.
func Navigation(u user.User) []Page {
	out := make([]Page, 0, len(Pages))
	for _, p := range Pages {
		if p.CanAccess(u.Role) {
			out = append(out, p)
		}
	}
	return out
}

// HomePath is where u lands after signing in; "" when no page admits the role.
func HomePath(u user.User) string {
	if nav := Navigation(u); len(nav) > 0 {
		return nav[0].Path
	}
	return ""
}

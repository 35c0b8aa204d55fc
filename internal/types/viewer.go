package types

// Viewer describes who is looking at a page. The zero value is an anonymous visitor.
type Viewer struct {
	Authenticated bool
	UserID        string
	Roles         []string
	// ViewPrivate is set for viewers whose role may read private resources.
	// A signed in guest without such a role sees what anonymous visitors see.
	ViewPrivate bool
}

// Anonymous is the viewer used when no valid session is present
var Anonymous = Viewer{}

// System is the privileged viewer used for host-side work such as hooks
var System = Viewer{Authenticated: true, UserID: "system", Roles: []string{"admin"}, ViewPrivate: true}

// HasAnyRole reports whether the viewer holds one of roles
func (v Viewer) HasAnyRole(roles []string) bool {
	for _, have := range v.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// WithPrivateRoles returns the viewer with ViewPrivate derived from roles
func (v Viewer) WithPrivateRoles(roles []string) Viewer {
	v.ViewPrivate = v.Authenticated && v.HasAnyRole(roles)
	return v
}

// CanSeePrivate reports whether private resources are visible to the viewer
func (v Viewer) CanSeePrivate() bool {
	return v.ViewPrivate
}

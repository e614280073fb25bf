package inventory

import (
	"cammanager/internal/constants"
	"cammanager/internal/database"
)

// Scope is a user's resolved visibility capability, computed once per
// request instead of re-deriving the admin special case at every call
// site. The zero value sees nothing, which is the fail-closed default
// for an unknown or absent user.
type Scope struct {
	All     bool
	Allowed map[string]bool
}

// ScopeFor resolves a user's visibility. Admins see everything; other
// roles see only their granted locations, and an empty grant list means
// zero visibility, not all.
func ScopeFor(u *database.User) Scope {
	if u == nil {
		return Scope{}
	}
	if u.Role == constants.RoleAdmin {
		return Scope{All: true}
	}
	allowed := make(map[string]bool)
	for _, loc := range u.Locations() {
		allowed[loc] = true
	}
	return Scope{Allowed: allowed}
}

func (s Scope) CanSee(location string) bool {
	if s.All {
		return true
	}
	return s.Allowed[location]
}

// FilterCameras is pure: it never mutates the input slice.
func FilterCameras(scope Scope, cams []database.Camera) []database.Camera {
	if scope.All {
		return cams
	}
	out := make([]database.Camera, 0, len(cams))
	for _, c := range cams {
		if scope.Allowed[c.Location] {
			out = append(out, c)
		}
	}
	return out
}

func FilterRecorders(scope Scope, recs []database.Recorder) []database.Recorder {
	if scope.All {
		return recs
	}
	out := make([]database.Recorder, 0, len(recs))
	for _, r := range recs {
		if scope.Allowed[r.Location] {
			out = append(out, r)
		}
	}
	return out
}

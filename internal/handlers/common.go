// Package handlers contains the HTTP layer: request decoding, scope
// resolution and response shaping. Domain rules live in the inventory
// engine, not here.
package handlers

import (
	"errors"
	"net/http"

	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

// requestScope resolves the caller's visibility. Unknown users fall back
// to the zero scope, which sees nothing.
func requestScope(r *http.Request, userRepo *database.UserRepo) inventory.Scope {
	user, err := userRepo.FindByID(web.GetUserID(r))
	if err != nil {
		return inventory.Scope{}
	}
	return inventory.ScopeFor(user)
}

// failInventory maps engine errors onto the API error catalog.
func failInventory(w http.ResponseWriter, r *http.Request, err error) {
	var inUse *inventory.InUseError
	switch {
	case errors.Is(err, inventory.ErrDuplicateIP):
		web.FailErr(w, r, web.ErrCameraDuplicateIP)
	case errors.Is(err, inventory.ErrDuplicateName):
		web.FailErr(w, r, web.ErrTaxonomyExists)
	case errors.Is(err, inventory.ErrEmptyName):
		web.FailErr(w, r, web.ErrTaxonomyEmpty)
	case errors.Is(err, inventory.ErrUnknownKind):
		web.FailErr(w, r, web.ErrTaxonomyKind)
	case errors.Is(err, inventory.ErrNotFound):
		web.FailErr(w, r, web.ErrNotFound)
	case errors.As(err, &inUse):
		web.FailErr(w, r, web.ErrTaxonomyInUse, inUse.Error())
	default:
		web.FailErr(w, r, web.ErrDBQuery)
	}
}

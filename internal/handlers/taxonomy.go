package handlers

import (
	"encoding/json"
	"net/http"

	"cammanager/internal/inventory"
	"cammanager/internal/web"
)

type TaxonomyHandler struct {
	svc *inventory.Service
}

func NewTaxonomyHandler(svc *inventory.Service) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

// List returns the entries of one kind (?kind=location|type|status).
func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListTaxonomy(r.URL.Query().Get("kind"))
	if err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, entries)
}

func (h *TaxonomyHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	entry, err := h.svc.AddTaxonomyEntry(req.Kind, req.Name, web.GetUsername(r))
	if err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, entry)
}

func (h *TaxonomyHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string `json:"kind"`
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if err := h.svc.RenameTaxonomyEntry(req.Kind, req.OldName, req.NewName, web.GetUsername(r)); err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

func (h *TaxonomyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if err := h.svc.RemoveTaxonomyEntry(req.Kind, req.Name, web.GetUsername(r)); err != nil {
		failInventory(w, r, err)
		return
	}
	web.OK(w, r, map[string]string{"message": "ok"})
}

package handler

import (
	"net/http"

	"github.com/nochase/nochase/internal/service"
)

type ResourceHandler struct {
	resourceService *service.ResourceService
}

func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resourceService.Resources())
}

func (h *ResourceHandler) Show(w http.ResponseWriter, r *http.Request) {
	resource, err := h.resourceService.Resource(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, resource)
}

// AngelaMos | 2026
// handler.go

package client

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodPut, http.MethodDelete))
			r.Put("/", h.UpdateClient)
			r.Delete("/", h.DeleteClient)
		})

		r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodGet, http.MethodPost))
		r.Get("/", h.ListClients)
		r.Post("/", h.CreateClient)
	})
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToClientResponseList(clients))
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.service.CreateClient(r.Context(), req.Params())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToClientResponse(c))
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.service.UpdateClient(r.Context(), id, req.Params())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToClientResponse(c))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

// decode checks the company before the names, so a bad companyId always
// reports the company.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*ClientRequest, bool) {
	var req ClientRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return nil, false
	}
	req.Normalize()

	if !req.CompanyID.Positive() {
		core.BadRequest(w, msgCompanyRequired)
		return nil, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgNamesRequired)
		return nil, false
	}

	return &req, true
}

// AngelaMos | 2026
// handler.go

package company

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
	r.Route("/companies", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodPut, http.MethodDelete))
			r.Put("/", h.UpdateCompany)
			r.Delete("/", h.DeleteCompany)
		})

		r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodGet, http.MethodPost))
		r.Get("/", h.ListCompanies)
		r.Post("/", h.CreateCompany)
	})
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToCompanyResponseList(companies))
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.service.CreateCompany(r.Context(), req.Params())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToCompanyResponse(c))
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.service.UpdateCompany(r.Context(), id, req.Params())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToCompanyResponse(c))
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteCompany(r.Context(), id); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*CompanyRequest, bool) {
	var req CompanyRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return nil, false
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgRequired)
		return nil, false
	}

	return &req, true
}

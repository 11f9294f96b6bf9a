// AngelaMos | 2026
// handler.go

package proposal

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
	r.Route("/proposals", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodPut, http.MethodDelete))
			r.Put("/", h.UpdateProposal)
			r.Delete("/", h.DeleteProposal)
		})

		r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodGet, http.MethodPost))
		r.Get("/", h.ListProposals)
		r.Post("/", h.CreateProposal)
	})
}

func (h *Handler) ListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.service.ListProposals(r.Context())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToProposalResponseList(proposals))
}

func (h *Handler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decode(w, r)
	if !ok {
		return
	}

	p, err := h.service.CreateProposal(r.Context(), params)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToProposalResponse(p))
}

func (h *Handler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	params, ok := h.decode(w, r)
	if !ok {
		return
	}

	p, err := h.service.UpdateProposal(r.Context(), id, params)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToProposalResponse(p))
}

func (h *Handler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteProposal(r.Context(), id); err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Params, bool) {
	var req ProposalRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return Params{}, false
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgRequired)
		return Params{}, false
	}

	params, err := req.Params()
	if err != nil {
		core.HandleError(w, r, err)
		return Params{}, false
	}

	return params, true
}

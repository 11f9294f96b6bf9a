// AngelaMos | 2026
// handler.go

package user

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

// RegisterRoutes mounts /users on a router that already requires a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Route("/{id}", func(r chi.Router) {
			r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodPut, http.MethodDelete))
			r.Put("/", h.UpdateUser)
			r.Delete("/", h.DeleteUser)
		})

		r.MethodNotAllowed(middleware.MethodNotAllowed(http.MethodGet, http.MethodPost))
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponseList(users))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgCreateRequired)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	var req UpdateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.HandleError(w, r, err)
		return
	}
	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, msgNamesRequired)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, req)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(r, "id")
	if !ok {
		core.BadRequest(w, msgInvalidID)
		return
	}

	err := h.service.DeleteUser(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		core.HandleError(w, r, err)
		return
	}

	core.NoContent(w)
}

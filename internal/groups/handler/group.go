package handler

import (
	"encoding/json"
	"net/http"

	"evshare/internal/groups/service"
	httputil "evshare/pkg/http"
	"evshare/pkg/logger"
	"evshare/pkg/middleware"
	"evshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type GroupHandler struct {
	service service.GroupService
	log     *logger.Logger
}

func NewGroupHandler(service service.GroupService, log *logger.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		log:     log,
	}
}

func (h *GroupHandler) actor(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		if writeErr := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Missing authenticated identity",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "operation", "WriteJSON", "error", writeErr)
		}
		return model.Actor{}, false
	}
	return actor, true
}

func (h *GroupHandler) writeErr(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var group model.OwnershipGroup
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), actor, &group); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, group); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	group, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, group); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	groups, total, err := h.service.List(r.Context(), actor, limit, offset)
	if err != nil {
		h.writeErr(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, groups, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var updates model.OwnershipGroupUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	group, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &updates)
	if err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, group); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeErr(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var member model.GroupMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddMember", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddMember(r.Context(), actor, ps.ByName("id"), member); err != nil {
		h.writeErr(w, "AddMember", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *GroupHandler) UpdateMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var updates model.GroupMemberUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateMember", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateMember(r.Context(), actor, ps.ByName("id"), ps.ByName("userId"), &updates); err != nil {
		h.writeErr(w, "UpdateMember", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), actor, ps.ByName("id"), ps.ByName("userId")); err != nil {
		h.writeErr(w, "RemoveMember", err)
		return
	}

	httputil.WriteNoContent(w)
}

type fundAdjustment struct {
	DeltaCents int64 `json:"delta_cents"`
}

func (h *GroupHandler) AdjustFund(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var adjustment fundAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adjustment); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AdjustFund", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AdjustFund(r.Context(), actor, ps.ByName("id"), adjustment.DeltaCents); err != nil {
		h.writeErr(w, "AdjustFund", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *GroupHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/groups", h.Create)
	router.GET("/api/v1/groups", h.List)
	router.GET("/api/v1/groups/id/:id", h.GetByID)
	router.PATCH("/api/v1/groups/id/:id", h.Update)
	router.DELETE("/api/v1/groups/id/:id", h.Delete)
	router.POST("/api/v1/groups/id/:id/members", h.AddMember)
	router.PATCH("/api/v1/groups/id/:id/members/:userId", h.UpdateMember)
	router.DELETE("/api/v1/groups/id/:id/members/:userId", h.RemoveMember)
	router.POST("/api/v1/groups/id/:id/fund", h.AdjustFund)
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/menu/domain/dto"
	"cafesync/internal/microservices/menu/service"
)

type MenuHandler struct {
	service service.MenuServiceInterface
}

func NewMenuHandler(s service.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: s}
}

func menuID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, domain.NotFound("Menu item not found")
	}
	return id, nil
}

func (mh *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := mh.service.List(r.Context(), domain.MenuFilter{
		Category:  r.URL.Query().Get("category"),
		Available: httpx.BoolParam(r, "available"),
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, items)
}

func (mh *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	item, err := mh.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, item)
}

func (mh *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMenuItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	item, err := mh.service.Create(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, item, "Menu item created successfully")
}

func (mh *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.MenuPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	item, err := mh.service.Update(r.Context(), patch)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, item, "Menu item updated successfully")
}

func (mh *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := menuID(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := mh.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, nil, "Menu item deleted successfully")
}

func (mh *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := mh.service.Categories(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, cats)
}

func (mh *MenuHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkUpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	items, err := mh.service.BulkUpdate(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, items, fmt.Sprintf("%d menu items updated successfully", len(items)))
}

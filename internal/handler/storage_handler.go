package handler

import (
	"net/http"

	"fsanano/glacierfarm/internal/model"
	"fsanano/glacierfarm/internal/service"
)

type StorageUnitRequest struct {
	Name        string     `json:"name"`
	Capacity    flexNumber `json:"capacity"`
	Temperature flexNumber `json:"temperature"`
	Location    string     `json:"location"`
}

type storageUnitResponse struct {
	StorageUnit *model.StorageUnit `json:"storageUnit"`
}

type storageUnitsResponse struct {
	StorageUnits []model.StorageUnit `json:"storageUnits"`
}

func (h *Handler) ListStorageUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.storage.List(r.Context(), accountID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storageUnitsResponse{StorageUnits: units})
}

func (h *Handler) CreateStorageUnit(w http.ResponseWriter, r *http.Request) {
	var req StorageUnitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	capacity, err := req.Capacity.Int("capacity")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	temperature, err := req.Temperature.Float("temperature")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	unit, err := h.storage.Create(r.Context(), accountID(r.Context()), service.CreateStorageUnitInput{
		Name:        req.Name,
		Capacity:    capacity,
		Temperature: temperature,
		Location:    req.Location,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, storageUnitResponse{StorageUnit: unit})
}

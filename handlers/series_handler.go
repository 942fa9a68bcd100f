package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tarujar/kantalakyykka/models"
	"github.com/tarujar/kantalakyykka/services"
)

type SeriesHandler struct {
	seriesService services.SeriesService
}

func NewSeriesHandler(ss services.SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesService: ss}
}

func (h *SeriesHandler) CreateSeries(w http.ResponseWriter, r *http.Request) {
	var input services.SeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.CreateSeries(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) GetSeriesByID(w http.ResponseWriter, r *http.Request) {
	seriesID, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.GetSeriesByID(r.Context(), seriesID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	var filter services.SeriesFilter

	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("invalid year filter %q", rawYear))
			return
		}
		filter.Year = &year
	}
	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status := models.SeriesStatus(rawStatus)
		switch status {
		case models.SeriesUpcoming, models.SeriesOngoing, models.SeriesCompleted:
			filter.Status = &status
		default:
			badRequestResponse(w, r, fmt.Errorf("invalid status filter %q", rawStatus))
			return
		}
	}

	series, err := h.seriesService.ListSeries(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.UpdateSeries(r.Context(), seriesID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := getIDFromURL(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.seriesService.DeleteSeries(r.Context(), seriesID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

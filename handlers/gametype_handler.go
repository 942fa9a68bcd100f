package handlers

import (
	"net/http"

	"github.com/tarujar/kantalakyykka/services"
)

type GameTypeHandler struct {
	gameTypeService services.GameTypeService
}

func NewGameTypeHandler(gts services.GameTypeService) *GameTypeHandler {
	return &GameTypeHandler{gameTypeService: gts}
}

func (h *GameTypeHandler) CreateGameType(w http.ResponseWriter, r *http.Request) {
	var input services.GameTypeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameType, err := h.gameTypeService.CreateGameType(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game_type": gameType}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameTypeHandler) GetGameTypeByID(w http.ResponseWriter, r *http.Request) {
	gameTypeID, err := getIDFromURL(r, "gameTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameType, err := h.gameTypeService.GetGameTypeByID(r.Context(), gameTypeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_type": gameType}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameTypeHandler) GetAllGameTypes(w http.ResponseWriter, r *http.Request) {
	gameTypes, err := h.gameTypeService.GetAllGameTypes(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_types": gameTypes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameTypeHandler) UpdateGameType(w http.ResponseWriter, r *http.Request) {
	gameTypeID, err := getIDFromURL(r, "gameTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameTypeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gameType, err := h.gameTypeService.UpdateGameType(r.Context(), gameTypeID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_type": gameType}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameTypeHandler) DeleteGameType(w http.ResponseWriter, r *http.Request) {
	gameTypeID, err := getIDFromURL(r, "gameTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameTypeService.DeleteGameType(r.Context(), gameTypeID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

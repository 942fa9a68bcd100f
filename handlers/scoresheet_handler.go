package handlers

import (
	"net/http"

	"github.com/tarujar/kantalakyykka/services"
)

type ScoreSheetHandler struct {
	scoreSheetService services.ScoreSheetService
}

func NewScoreSheetHandler(sss services.ScoreSheetService) *ScoreSheetHandler {
	return &ScoreSheetHandler{scoreSheetService: sss}
}

// GetScoreSheet returns the full sheet for a game, with rotation defaults
// pre-filled for rounds not yet thrown.
func (h *ScoreSheetHandler) GetScoreSheet(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sheet, err := h.scoreSheetService.Load(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"score_sheet": sheet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PutScoreSheet validates and persists a submitted sheet atomically, then
// returns the saved state.
func (h *ScoreSheetHandler) PutScoreSheet(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var sheet services.ScoreSheet
	if err := readJSON(w, r, &sheet); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	saved, err := h.scoreSheetService.Save(r.Context(), gameID, sheet)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"score_sheet": saved}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

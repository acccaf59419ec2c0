package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func statusFor(err error) (int, apperror.Kind) {
	kind := apperror.KindOf(err)

	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound, kind
	case apperror.KindFunds:
		return http.StatusBadRequest, kind
	case apperror.KindMove:
		if errors.Is(err, apperror.ErrInvalidCell) {
			return http.StatusBadRequest, kind
		}

		return http.StatusConflict, kind
	case apperror.KindAdmission, apperror.KindState, apperror.KindTurn:
		return http.StatusConflict, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func writeErr(w http.ResponseWriter, status int, msg string, kind apperror.Kind) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: string(kind)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

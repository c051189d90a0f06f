// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfare/internal/modules/assistquota"
	"wayfare/internal/modules/dialogue"
	"wayfare/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID keeps conversation and trip ids to a sane shape: alphanumeric
// plus dash/underscore, at most 64 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDialogueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dialogue.ErrNoActiveSession):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, dialogue.ErrInvalidSessionState), errors.Is(err, dialogue.ErrNoMissingFields):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, assistquota.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

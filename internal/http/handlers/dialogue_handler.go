// README: Conversation handlers: message routing and abandonment.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/middleware"
	"wayfare/internal/modules/dialogue"
	"wayfare/internal/types"
)

type DialogueHandler struct {
	dialogue *dialogue.Service
}

func NewDialogueHandler(svc *dialogue.Service) *DialogueHandler {
	return &DialogueHandler{dialogue: svc}
}

type messageReq struct {
	Message string `json:"message"`
}

type progressResp struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type messageResp struct {
	Type      string                     `json:"type"`
	Prompt    string                     `json:"prompt,omitempty"`
	Field     string                     `json:"field,omitempty"`
	Rejection string                     `json:"rejection,omitempty"`
	Progress  *progressResp              `json:"progress,omitempty"`
	TripID    string                     `json:"trip_id,omitempty"`
	Request   *dialogue.CompletedRequest `json:"request,omitempty"`
	Abandoned *dialogue.PartialRequest   `json:"abandoned,omitempty"`
}

// Message handles POST /api/conversations/:id/messages.
func (h *DialogueHandler) Message(c *gin.Context) {
	convID := c.Param("id")
	if !isValidID(convID) {
		writeError(c, http.StatusBadRequest, "invalid conversation id")
		return
	}

	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	owner := types.ID(middleware.CallerUID(c))
	out, err := h.dialogue.HandleMessage(ctx, owner, types.ID(convID), req.Message)
	if err != nil {
		writeDialogueError(c, err)
		return
	}

	resp := messageResp{
		Type:      string(out.Kind),
		Prompt:    out.Prompt,
		Field:     string(out.Field),
		Rejection: out.Rejection,
		Request:   out.Request,
		TripID:    string(out.TripID),
		Abandoned: out.Abandoned,
	}
	if out.Kind == dialogue.OutcomeSlotFilling {
		resp.Progress = &progressResp{Answered: out.Answered, Total: out.Total}
	}
	writeJSON(c, http.StatusOK, resp)
}

// Abandon handles POST /api/conversations/:id/abandon.
func (h *DialogueHandler) Abandon(c *gin.Context) {
	convID := c.Param("id")
	if !isValidID(convID) {
		writeError(c, http.StatusBadRequest, "invalid conversation id")
		return
	}

	owner := types.ID(middleware.CallerUID(c))
	partial, err := h.dialogue.Abandon(c.Request.Context(), owner, types.ID(convID))
	if err != nil {
		writeDialogueError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"partial": partial})
}

// README: Trip read handlers (owner-scoped).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/middleware"
	"wayfare/internal/modules/trip"
	"wayfare/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type tripResp struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	Destination   string  `json:"destination"`
	Budget        int     `json:"budget"`
	Members       int     `json:"members"`
	RouteSeconds  *int64  `json:"route_seconds,omitempty"`
	RouteDistance *string `json:"route_distance,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toTripResp(t *trip.Trip) tripResp {
	return tripResp{
		ID:            string(t.ID),
		Source:        t.Source,
		Destination:   t.Destination,
		Budget:        t.Budget,
		Members:       t.Members,
		RouteSeconds:  t.RouteSeconds,
		RouteDistance: t.RouteDistance,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	owner := types.ID(middleware.CallerUID(c))
	t, err := h.trips.GetForOwner(c.Request.Context(), owner, types.ID(id))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}

// List handles GET /api/trips.
func (h *TripHandler) List(c *gin.Context) {
	owner := types.ID(middleware.CallerUID(c))
	trips, err := h.trips.ListForOwner(c.Request.Context(), owner)
	if err != nil {
		writeTripError(c, err)
		return
	}
	out := make([]tripResp, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResp(t))
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": out})
}

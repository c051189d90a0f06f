// README: Trip aggregate created from completed dialogue requests.
package trip

import (
	"errors"
	"time"

	"wayfare/internal/types"
)

var (
	ErrNotFound   = errors.New("trip not found")
	ErrBadRequest = errors.New("bad request")
)

type Trip struct {
	ID          types.ID
	OwnerID     types.ID
	Source      string
	Destination string
	Budget      int
	Members     int
	// RouteSeconds and RouteDistance hold the best-effort travel estimate;
	// nil when no maps client is configured or the lookup failed.
	RouteSeconds  *int64
	RouteDistance *string
	CreatedAt     time.Time
}

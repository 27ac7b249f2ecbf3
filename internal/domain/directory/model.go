package directory

import (
	"time"

	"github.com/google/uuid"
)

// Professional is a clinic practitioner shown on the agenda. Color is the
// hex accent used for their appointment cards and overlays.
type Professional struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the minimal registry record the booking flow needs: an id to
// book against and a display name to join onto appointment rows.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package directory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	// ListActive returns active professionals ordered by name.
	ListActive(ctx context.Context) ([]*Professional, error)
	List(ctx context.Context, limit, offset int) ([]*Professional, int, error)
	Update(ctx context.Context, p *Professional) error
	// Deactivate hides a professional from the agenda without deleting
	// their appointment history.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

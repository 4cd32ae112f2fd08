package battle

import (
	"context"
	"errors"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
)

var ErrAlreadyExists = errors.New("battle window already exists")

type Repository interface {
	GetByID(ctx context.Context, id battleid.ID) (Window, bool, error)
	// Create persists a new window and fails with ErrAlreadyExists when a
	// window with the same identifier is already present.
	Create(ctx context.Context, window Window) (Window, error)
	// List returns every window ordered by identifier ascending.
	List(ctx context.Context) ([]Window, error)
}

package repository

import "context"

// Store is the persistence boundary the repositories save their snapshots through.
type Store interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

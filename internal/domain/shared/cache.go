package shared

import "context"

// RecordCache is an optional read cache keyed by entity name and id.
// Implementations live in infrastructure/persistence.
type RecordCache interface {
	// Load fills dest and reports true on a hit.
	Load(ctx context.Context, entity string, id int64, dest any) (bool, error)
	Store(ctx context.Context, entity string, id int64, value any) error
	Evict(ctx context.Context, entity string, id int64) error
	EvictAll(ctx context.Context, entity string) error
}

// NopCache never hits and ignores writes. It is used when caching is disabled.
type NopCache struct{}

func (NopCache) Load(context.Context, string, int64, any) (bool, error) { return false, nil }
func (NopCache) Store(context.Context, string, int64, any) error        { return nil }
func (NopCache) Evict(context.Context, string, int64) error             { return nil }
func (NopCache) EvictAll(context.Context, string) error                 { return nil }

package cachesync

import "context"

// Fetcher reloads one partition from the server. Registered per key so a
// mutation without a surgical patch can trigger an immediate refetch.
type Fetcher func(ctx context.Context) (any, error)

// Mutation describes one remote write and how the cache reconciles with
// its outcome.
type Mutation[T any] struct {
	// Do performs exactly one remote mutation and returns the
	// created/updated entity (or a zero value for deletes).
	Do func(ctx context.Context) (T, error)

	// Keys are the partitions this mutation may affect.
	Keys []Key

	// PatchCache surgically rewrites one partition with the confirmed
	// result (append, replace-by-id, remove-by-id). It receives the
	// partition's current value and returns the new one; the runner
	// stores it atomically. Partitions that have never been populated
	// are left absent (and therefore stale) rather than patched from
	// nothing, so a patch can never fabricate a partial collection.
	// When PatchCache is nil, affected partitions are invalidated and
	// refetched instead. Patch functions must be pure transformations
	// of the partition they are handed.
	PatchCache func(result T, key Key, current any) any

	OnSuccess func(result T)
	OnError   func(err error)
}

// Runner applies mutations against a Store. Patch application is
// serialized in the order mutations resolve, and is all-or-nothing per
// mutation: a failed Do leaves every partition exactly as it was.
type Runner struct {
	store    *Store
	fetchers map[Key]Fetcher
}

func NewRunner(store *Store) *Runner {
	return &Runner{
		store:    store,
		fetchers: make(map[Key]Fetcher),
	}
}

func (r *Runner) Store() *Store {
	return r.store
}

func (r *Runner) RegisterFetcher(key Key, fn Fetcher) {
	r.fetchers[key] = fn
}

// Run executes the mutation and reconciles the cache with its outcome.
// The remote call is the only suspension point; once it resolves, cache
// work for this mutation happens in one go under the store lock, so
// patches from different in-flight mutations never interleave.
func Run[T any](ctx context.Context, r *Runner, m Mutation[T]) (T, error) {
	result, err := m.Do(ctx)
	if err != nil {
		if m.OnError != nil {
			m.OnError(err)
		}
		var zero T
		return zero, err
	}

	r.store.mu.Lock()
	for _, key := range m.Keys {
		e, populated := r.store.parts[key]
		if m.PatchCache != nil {
			// Never-populated partitions stay absent: the next read
			// fetches the full collection instead of a fabricated one.
			if populated {
				r.store.parts[key] = &entry{value: m.PatchCache(result, key, e.value)}
			}
			continue
		}
		if populated {
			e.stale = true
		}
	}
	r.store.mu.Unlock()

	// Refetch outside the lock; each fetch replaces the partition with a
	// fresh server-confirmed snapshot.
	if m.PatchCache == nil {
		for _, key := range m.Keys {
			fetch, ok := r.fetchers[key]
			if !ok {
				continue
			}
			if v, ferr := fetch(ctx); ferr == nil {
				r.store.Set(key, v)
			}
		}
	}

	if m.OnSuccess != nil {
		m.OnSuccess(result)
	}

	return result, nil
}

package schematype

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	js "github.com/reoring/schematype/jsonschema"
	"github.com/reoring/schematype/shape"
)

// DefaultCacheSize is the number of derivations a Deriver keeps by default.
const DefaultCacheSize = 256

// DeriverOptions configures a Deriver.
type DeriverOptions struct {
	// CacheSize bounds the number of cached derivations. Zero selects
	// DefaultCacheSize.
	CacheSize int
}

// Deriver memoizes Derive per (node, table, options). Derived Types are
// immutable, so cached results are shared between callers. A Deriver is safe
// for concurrent use; concurrent requests for the same key run once.
//
// Schema nodes are keyed by identity: mutating a node after it has been
// derived yields stale results.
type Deriver struct {
	cache *lru.Cache[string, derived]
	group singleflight.Group
}

type derived struct {
	t    shape.Type
	diag Diag
	err  error
}

// NewDeriver returns a Deriver with an empty cache.
func NewDeriver(o DeriverOptions) (*Deriver, error) {
	size := o.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size < 0 {
		return nil, fmt.Errorf("schematype: cache size must be positive, got %d", size)
	}
	cache, err := lru.New[string, derived](size)
	if err != nil {
		return nil, fmt.Errorf("schematype: init cache: %w", err)
	}
	return &Deriver{cache: cache}, nil
}

// Derive is the memoized form of the package-level Derive. ctx only bounds
// the wait for an identical derivation already running in another goroutine.
func (d *Deriver) Derive(ctx context.Context, node *js.Schema, table Table, opts Options) (shape.Type, Diag, error) {
	if node == nil {
		return nil, &simpleDiag{}, ErrNilSchema
	}
	if err := ctx.Err(); err != nil {
		return nil, &simpleDiag{}, err
	}
	key := cacheKey(node, table, opts)
	if r, ok := d.cache.Get(key); ok {
		logger().Debug("derive cache hit", "id", node.ID)
		return r.t, r.diag, r.err
	}
	ch := d.group.DoChan(key, func() (any, error) {
		logger().Debug("derive cache miss", "id", node.ID)
		t, diag, err := Derive(node, table, opts)
		r := derived{t: t, diag: diag, err: err}
		d.cache.Add(key, r)
		return r, nil
	})
	select {
	case <-ctx.Done():
		return nil, &simpleDiag{}, ctx.Err()
	case res := <-ch:
		r, ok := res.Val.(derived)
		if !ok {
			return nil, &simpleDiag{}, fmt.Errorf("schematype: unexpected cached value %T", res.Val)
		}
		return r.t, r.diag, r.err
	}
}

// Len returns the number of cached derivations.
func (d *Deriver) Len() int { return d.cache.Len() }

// Purge drops every cached derivation.
func (d *Deriver) Purge() { d.cache.Purge() }

func cacheKey(node *js.Schema, table Table, opts Options) string {
	root := table.push(Entry{ID: node.ID, Node: node})
	return fmt.Sprintf("%p|%d|%d|%t|%t|%s", node, opts.Mode, opts.Recursion, opts.Strict, opts.FailFast, root.fp)
}

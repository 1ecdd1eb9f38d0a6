package codec

import "context"

// Leaf converts a single wire value A to its domain form B and back.
type Leaf[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error)
	Encode(ctx context.Context, b B) (A, error)
}

// Identity returns a Leaf[T,T] that performs identity transformations.
func Identity[T any]() Leaf[T, T] { return identityLeaf[T]{} }

type identityLeaf[T any] struct{}

func (identityLeaf[T]) Decode(_ context.Context, a T) (T, error) { return a, nil }
func (identityLeaf[T]) Encode(_ context.Context, b T) (T, error) { return b, nil }

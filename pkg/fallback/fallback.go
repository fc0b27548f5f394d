// Package fallback цепочка попыток до первой успешной
package fallback

import (
	"context"
	"errors"
	"fmt"
)

// ErrExhausted не сработала ни одна попытка, ошибки стадий внутри
var ErrExhausted = errors.New("all attempts failed")

// Attempt одна ступень цепочки
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// TryInOrder запускает попытки по очереди и возвращает первый успех и его индекс.
// Ошибка наружу только когда упали все или кончился контекст
func TryInOrder[T any](ctx context.Context, attempts ...Attempt[T]) (T, int, error) {
	var zero T
	errs := make([]error, 0, len(attempts))

	for i, a := range attempts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return zero, -1, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
		}

		v, err := a.Run(ctx)
		if err == nil {
			return v, i, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
	}

	if len(errs) == 0 {
		return zero, -1, fmt.Errorf("%w: no attempts", ErrExhausted)
	}
	return zero, -1, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}

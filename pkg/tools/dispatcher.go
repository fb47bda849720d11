package tools

import (
	"context"
	"log"
)

// TaskFunc defines a function executed asynchronously.
type TaskFunc func(ctx context.Context) error

// Dispatch runs the task in a separate goroutine, fire-and-forget. Failures
// are logged under the given name since no caller is left to receive them.
func Dispatch(ctx context.Context, name string, fn TaskFunc) {
	go func() {
		if err := fn(ctx); err != nil {
			log.Printf("[ERROR] task %s: %v", name, err)
		}
	}()
}

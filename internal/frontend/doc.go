// Package frontend holds the user-facing loops that read input, map it to
// editor requests and dispatch them to the store.
//
// Subpackages:
//
//   - line: line-oriented sessions over any reader, ed style
//   - screen: a full-screen terminal session built on tcell
package frontend

import (
	"context"

	"github.com/dshills/lined/internal/editor"
	"github.com/dshills/lined/internal/store"
)

// Target is the store a frontend drives.
type Target interface {
	Dispatch(ctx context.Context, action editor.Action, effect editor.Effect) error
	Flush(ctx context.Context) error
	State() editor.State
	Subscribe() *store.Subscription[editor.State]
}

// Frontend runs until the session ends or ctx is cancelled.
type Frontend interface {
	Run(ctx context.Context) error
}

// Package chain is the boundary to the blockchain contract layer. The
// service treats it as an opaque collaborator: invocations either return a
// result or fail, and transaction semantics live entirely behind the
// interface.
package chain

import "context"

// Result is the outcome of one contract invocation.
type Result struct {
	TxHash string
	State  string
}

// Invoker submits contract invocations.
type Invoker interface {
	Invoke(ctx context.Context, method string, args ...any) (Result, error)
}

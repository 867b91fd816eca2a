package sysaction

import (
	"fmt"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/metrics"
)

var executedMeter = metrics.NewRegisteredMeterVec("sysaction/executed", []string{"action", "result"}, nil)

// Context carries information available to a system-action handler.
type Context struct {
	// From is the already authenticated caller.
	From common.Address
	// Era is the current epoch supplied by the host.
	Era uint64
	// Privileged is set when the caller is the governance origin.
	Privileged bool
	StateDB    vm.StateDB
	Clusters   cluster.Visitor
}

// Handler is implemented by the node registry and staking sub-systems.
type Handler interface {
	CanHandle(kind ActionKind) bool
	Handle(ctx *Context, sa *SysAction) error
}

// Registry holds registered handlers.
type Registry struct{ handlers []Handler }

// DefaultRegistry is the process-wide handler registry.
var DefaultRegistry = &Registry{}

// Register adds a handler to the registry.
func (r *Registry) Register(h Handler) { r.handlers = append(r.handlers, h) }

func (r *Registry) lookup(kind ActionKind) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(kind) {
			return h
		}
	}
	return nil
}

// Execute decodes data and dispatches it to the registered handler. Any
// handler error reverts every state write the action made.
func Execute(ctx *Context, data []byte) error {
	sa, err := Decode(data)
	if err != nil {
		return err
	}
	return DefaultRegistry.Apply(ctx, sa)
}

// Apply dispatches an already decoded action.
func (r *Registry) Apply(ctx *Context, sa *SysAction) error {
	h := r.lookup(sa.Action)
	if h == nil {
		executedMeter.WithLabelValues(string(sa.Action), "unknown").Inc()
		return fmt.Errorf("unknown system action: %q", sa.Action)
	}
	snap := ctx.StateDB.Snapshot()
	if err := h.Handle(ctx, sa); err != nil {
		ctx.StateDB.RevertToSnapshot(snap)
		executedMeter.WithLabelValues(string(sa.Action), "rejected").Inc()
		log.Debug("System action rejected", "action", sa.Action, "from", ctx.From, "era", ctx.Era, "err", err)
		return err
	}
	executedMeter.WithLabelValues(string(sa.Action), "ok").Inc()
	log.Trace("System action applied", "action", sa.Action, "from", ctx.From, "era", ctx.Era)
	return nil
}

package nodes

import (
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&nodesHandler{})
}

// nodesHandler implements sysaction.Handler for the node registry.
type nodesHandler struct{}

func (h *nodesHandler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionNodeCreate,
		sysaction.ActionNodeRemove,
		sysaction.ActionNodeSetParams:
		return true
	}
	return false
}

func (h *nodesHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	switch sa.Action {
	case sysaction.ActionNodeCreate:
		return h.handleCreate(ctx, sa)
	case sysaction.ActionNodeRemove:
		return h.handleRemove(ctx, sa)
	case sysaction.ActionNodeSetParams:
		return h.handleSetParams(ctx, sa)
	}
	return nil
}

func (h *nodesHandler) handleCreate(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	var p sysaction.NodeCreatePayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return err
	}
	n, err := New(p.PubKey, ctx.From, NodeParams{Type: p.Params.Type, Params: p.Params.Params})
	if err != nil {
		return err
	}
	if err := Create(ctx.StateDB, n); err != nil {
		return err
	}
	log.Trace("Node created", "key", p.PubKey, "provider", ctx.From, "props", len(p.Params.Params))
	return nil
}

func (h *nodesHandler) handleRemove(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	var p sysaction.NodeKeyPayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return err
	}
	n, err := Get(ctx.StateDB, p.PubKey)
	if err != nil {
		return err
	}
	// An assigned node must finish chilling first, whoever asks.
	if n.ClusterID() != nil {
		return ErrNodeIsAssignedToCluster
	}
	if n.ProviderID() != ctx.From {
		return ErrOnlyNodeProvider
	}
	Remove(ctx.StateDB, p.PubKey)
	log.Trace("Node removed", "key", p.PubKey, "provider", ctx.From)
	return nil
}

func (h *nodesHandler) handleSetParams(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	var p sysaction.NodeCreatePayload
	if err := sysaction.DecodePayload(sa, &p); err != nil {
		return err
	}
	n, err := Get(ctx.StateDB, p.PubKey)
	if err != nil {
		return err
	}
	if n.ProviderID() != ctx.From {
		return ErrOnlyNodeProvider
	}
	if err := n.SetParams(NodeParams{Type: p.Params.Type, Params: p.Params.Params}); err != nil {
		return err
	}
	return Update(ctx.StateDB, n)
}

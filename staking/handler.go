package staking

import (
	"fmt"

	"github.com/tos-network/ddc/sysaction"
)

func init() {
	sysaction.DefaultRegistry.Register(&stakingHandler{})
}

// stakingHandler implements sysaction.Handler for bonding, the service
// lifecycle and cluster manager actions.
type stakingHandler struct{}

func (h *stakingHandler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionStakeBond,
		sysaction.ActionStakeUnbond,
		sysaction.ActionStakeWithdrawUnbonded,
		sysaction.ActionStakeSetController,
		sysaction.ActionStakeSetNode,
		sysaction.ActionStakeStore,
		sysaction.ActionStakeServe,
		sysaction.ActionStakeChill,
		sysaction.ActionClusterManagerAllow,
		sysaction.ActionClusterManagerDisallow,
		sysaction.ActionClusterAddNode,
		sysaction.ActionClusterRemoveNode:
		return true
	}
	return false
}

func (h *stakingHandler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	db := ctx.StateDB
	from := ctx.From

	switch sa.Action {
	case sysaction.ActionStakeBond:
		var p sysaction.BondPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		amount, err := sysaction.ParseAmount(p.Amount)
		if err != nil {
			return err
		}
		return Bond(db, from, p.Controller, p.NodePubKey, amount)

	case sysaction.ActionStakeUnbond:
		var p sysaction.AmountPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		amount, err := sysaction.ParseAmount(p.Amount)
		if err != nil {
			return err
		}
		return Unbond(db, ctx.Clusters, from, amount, ctx.Era)

	case sysaction.ActionStakeWithdrawUnbonded:
		return WithdrawUnbonded(db, from, ctx.Era)

	case sysaction.ActionStakeSetController:
		var p sysaction.ControllerPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return SetController(db, from, p.Controller)

	case sysaction.ActionStakeSetNode:
		var p sysaction.NodeKeyPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		return SetNode(db, from, p.PubKey)

	case sysaction.ActionStakeStore, sysaction.ActionStakeServe:
		var p sysaction.ClusterPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		if sa.Action == sysaction.ActionStakeStore {
			return Store(db, ctx.Clusters, from, p.ClusterID)
		}
		return Serve(db, ctx.Clusters, from, p.ClusterID)

	case sysaction.ActionStakeChill:
		return Chill(db, ctx.Clusters, from, ctx.Era)

	case sysaction.ActionClusterManagerAllow, sysaction.ActionClusterManagerDisallow:
		var p sysaction.AccountPayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		if sa.Action == sysaction.ActionClusterManagerAllow {
			return AllowClusterManager(db, ctx.Privileged, p.Account)
		}
		return DisallowClusterManager(db, ctx.Privileged, p.Account)

	case sysaction.ActionClusterAddNode, sysaction.ActionClusterRemoveNode:
		var p sysaction.ClusterNodePayload
		if err := sysaction.DecodePayload(sa, &p); err != nil {
			return err
		}
		if sa.Action == sysaction.ActionClusterAddNode {
			return AddNodeToCluster(db, ctx.Clusters, from, p.ClusterID, p.NodePubKey)
		}
		return RemoveNodeFromCluster(db, ctx.Clusters, from, p.ClusterID, p.NodePubKey)
	}
	return fmt.Errorf("staking: unhandled action %q", sa.Action)
}

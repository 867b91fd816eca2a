package staking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/nodes"
	"github.com/tos-network/ddc/params"
	"github.com/tos-network/ddc/sysaction"
)

func allow(t *testing.T, ctx *sysaction.Context, account common.Address) error {
	return exec(t, ctx, sysaction.ActionClusterManagerAllow, sysaction.AccountPayload{Account: account})
}

func disallow(t *testing.T, ctx *sysaction.Context, account common.Address) error {
	return exec(t, ctx, sysaction.ActionClusterManagerDisallow, sysaction.AccountPayload{Account: account})
}

func rootCtx(ctx *sysaction.Context) *sysaction.Context {
	ctx.Privileged = true
	return ctx
}

func TestAllowListRequiresPrivilege(t *testing.T) {
	st := newTestState()

	err := allow(t, newCtx(st, manager, 0), manager)
	require.Equal(t, ErrUnauthorized, err)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.Equal(t, ErrUnauthorized, disallow(t, newCtx(st, manager, 0), manager))
	require.Empty(t, ClusterManagers(st))
}

func TestAllowListIdempotentOrdered(t *testing.T) {
	st := newTestState()
	a, b, c := common.Address{1}, common.Address{2}, common.Address{3}

	for _, acc := range []common.Address{a, b, a, c} {
		require.NoError(t, allow(t, rootCtx(newCtx(st, common.Address{}, 0)), acc))
	}
	require.Equal(t, []common.Address{a, b, c}, ClusterManagers(st))

	require.NoError(t, disallow(t, rootCtx(newCtx(st, common.Address{}, 0)), a))
	require.NoError(t, disallow(t, rootCtx(newCtx(st, common.Address{}, 0)), a))
	require.Equal(t, []common.Address{b, c}, ClusterManagers(st))
	require.False(t, IsClusterManager(st, a))
	require.True(t, IsClusterManager(st, c))
}

func TestAllowListBound(t *testing.T) {
	st := newTestState()
	for i := 0; i < params.MaxClusterManagers; i++ {
		require.NoError(t, AllowClusterManager(st, true, common.Address{0x10, byte(i)}))
	}
	err := allow(t, rootCtx(newCtx(st, common.Address{}, 0)), common.Address{0x20})
	require.Equal(t, ErrTooManyClusterManagers, err)
	require.ErrorIs(t, err, common.ErrLimitExceeded)

	// Re-allowing a present account is still fine when full.
	require.NoError(t, AllowClusterManager(st, true, common.Address{0x10, 0}))
	require.Len(t, ClusterManagers(st), params.MaxClusterManagers)
}

func clusterNode(t *testing.T, ctx *sysaction.Context, kind sysaction.ActionKind, id common.ClusterID, key common.NodePubKey) error {
	return exec(t, ctx, kind, sysaction.ClusterNodePayload{ClusterID: id, NodePubKey: key})
}

func TestClusterNodeActions(t *testing.T) {
	st := newTestState()
	mustCreateNode(t, st, cdnK)
	ctx := newCtx(st, manager, 0)

	require.Equal(t, ErrUnauthorized, clusterNode(t, ctx, sysaction.ActionClusterAddNode, clusterC, cdnK))
	require.NoError(t, AllowClusterManager(st, true, manager))

	err := clusterNode(t, ctx, sysaction.ActionClusterAddNode, noCluster, cdnK)
	require.ErrorIs(t, err, cluster.ErrClusterDoesNotExist)
	require.Equal(t, nodes.ErrAttemptToAddNonExistentNode, clusterNode(t, ctx, sysaction.ActionClusterAddNode, clusterC, cdnL))

	require.NoError(t, clusterNode(t, ctx, sysaction.ActionClusterAddNode, clusterC, cdnK))
	require.Equal(t, nodes.ErrAttemptToAddAlreadyAssignedNode, clusterNode(t, ctx, sysaction.ActionClusterAddNode, clusterE, cdnK))
	require.Equal(t, nodes.ErrAttemptToRemoveNotAssignedNode, clusterNode(t, ctx, sysaction.ActionClusterRemoveNode, clusterE, cdnK))

	// A serving stash keeps its node until it has chilled.
	mustBond(t, st, stashA, ctrlB, cdnK, "300")
	require.NoError(t, serve(t, st, ctrlB, clusterC, 1))
	require.Equal(t, ErrAlreadyInRole, clusterNode(t, ctx, sysaction.ActionClusterRemoveNode, clusterC, cdnK))

	require.NoError(t, chill(t, st, ctrlB, 1))
	require.NoError(t, chill(t, st, ctrlB, 51))
	require.NoError(t, clusterNode(t, ctx, sysaction.ActionClusterAddNode, clusterC, cdnK))
	require.NoError(t, clusterNode(t, ctx, sysaction.ActionClusterRemoveNode, clusterC, cdnK))
	require.Equal(t, nodes.ErrAttemptToRemoveNotAssignedNode, clusterNode(t, ctx, sysaction.ActionClusterRemoveNode, clusterC, cdnK))
}

package nodes

import "github.com/tos-network/ddc/common"

var (
	ErrNodeAlreadyExists       = common.NewError(common.ErrAlreadyExists, "nodes: node already exists")
	ErrNodeDoesNotExist        = common.NewError(common.ErrNotFound, "nodes: node does not exist")
	ErrInvalidNodeParams       = common.NewError(common.ErrInvalidState, "nodes: node params do not match the node kind")
	ErrNodeParamsExceedsLimit  = common.NewError(common.ErrLimitExceeded, "nodes: node params exceed the size limit")
	ErrOnlyNodeProvider        = common.NewError(common.ErrUnauthorized, "nodes: only the node provider may do this")
	ErrNodeIsAssignedToCluster = common.NewError(common.ErrInvalidState, "nodes: node is assigned to a cluster")

	// cluster.Manager errors
	ErrAttemptToAddNonExistentNode     = common.NewError(common.ErrNotFound, "nodes: attempt to add a non-existent node to a cluster")
	ErrAttemptToAddAlreadyAssignedNode = common.NewError(common.ErrInvalidState, "nodes: attempt to add a node that is already assigned to a cluster")
	ErrAttemptToRemoveNotAssignedNode  = common.NewError(common.ErrInvalidState, "nodes: attempt to remove a node that is not assigned to the cluster")
	ErrAttemptToRemoveNonExistentNode  = common.NewError(common.ErrNotFound, "nodes: attempt to remove a non-existent node from a cluster")
)

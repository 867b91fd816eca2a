// Package sysaction implements the ddc system action protocol.
//
// Every mutation of the node registry or staking state is a system action: a
// JSON-encoded SysAction message carrying an action kind and its payload.
// Execute decodes the message and dispatches it to the handler registered for
// the kind (nodes, staking).
package sysaction

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tos-network/ddc/common"
)

// ActionKind identifies the type of system action.
type ActionKind string

const (
	// Node registry
	ActionNodeCreate    ActionKind = "NODE_CREATE"
	ActionNodeRemove    ActionKind = "NODE_REMOVE"
	ActionNodeSetParams ActionKind = "NODE_SET_PARAMS"

	// Bonding and ledger
	ActionStakeBond             ActionKind = "STAKE_BOND"
	ActionStakeUnbond           ActionKind = "STAKE_UNBOND"
	ActionStakeWithdrawUnbonded ActionKind = "STAKE_WITHDRAW_UNBONDED"
	ActionStakeSetController    ActionKind = "STAKE_SET_CONTROLLER"
	ActionStakeSetNode          ActionKind = "STAKE_SET_NODE"

	// Service lifecycle
	ActionStakeStore ActionKind = "STAKE_STORE"
	ActionStakeServe ActionKind = "STAKE_SERVE"
	ActionStakeChill ActionKind = "STAKE_CHILL"

	// Governance allow-list and cluster membership
	ActionClusterManagerAllow    ActionKind = "CLUSTER_MANAGER_ALLOW"
	ActionClusterManagerDisallow ActionKind = "CLUSTER_MANAGER_DISALLOW"
	ActionClusterAddNode         ActionKind = "CLUSTER_ADD_NODE"
	ActionClusterRemoveNode      ActionKind = "CLUSTER_REMOVE_NODE"
)

// SysAction is the top-level envelope of a system action.
type SysAction struct {
	Action  ActionKind      `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NodeParams carries the kind-tagged raw parameters of a node.
type NodeParams struct {
	Type   common.NodeType `json:"type"`
	Params hexutil.Bytes   `json:"params"`
}

// NodeCreatePayload is the payload for NODE_CREATE / NODE_SET_PARAMS.
type NodeCreatePayload struct {
	PubKey common.NodePubKey `json:"pub_key"`
	Params NodeParams        `json:"params"`
}

// NodeKeyPayload is the payload for NODE_REMOVE and STAKE_SET_NODE.
type NodeKeyPayload struct {
	PubKey common.NodePubKey `json:"pub_key"`
}

// BondPayload is the payload for STAKE_BOND. Amount is a decimal string.
type BondPayload struct {
	Controller common.Address    `json:"controller"`
	NodePubKey common.NodePubKey `json:"node_pub_key"`
	Amount     string            `json:"amount"`
}

// AmountPayload is the payload for STAKE_UNBOND.
type AmountPayload struct {
	Amount string `json:"amount"`
}

// ClusterPayload is the payload for STAKE_STORE / STAKE_SERVE.
type ClusterPayload struct {
	ClusterID common.ClusterID `json:"cluster_id"`
}

// ControllerPayload is the payload for STAKE_SET_CONTROLLER.
type ControllerPayload struct {
	Controller common.Address `json:"controller"`
}

// AccountPayload is the payload for CLUSTER_MANAGER_ALLOW / _DISALLOW.
type AccountPayload struct {
	Account common.Address `json:"account"`
}

// ClusterNodePayload is the payload for CLUSTER_ADD_NODE / CLUSTER_REMOVE_NODE.
type ClusterNodePayload struct {
	ClusterID  common.ClusterID  `json:"cluster_id"`
	NodePubKey common.NodePubKey `json:"node_pub_key"`
}

package cluster

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
)

var errUnknownNodeType = errors.New("cluster: unknown node type")

type entry struct {
	reserve common.Address
	params  *GovParams
}

// StaticVisitor serves cluster governance from a fixed in-memory table,
// typically loaded from configuration.
type StaticVisitor struct {
	clusters map[common.ClusterID]*entry
}

// NewStaticVisitor returns an empty visitor; every query fails with
// ErrClusterDoesNotExist until clusters are added.
func NewStaticVisitor() *StaticVisitor {
	return &StaticVisitor{clusters: make(map[common.ClusterID]*entry)}
}

// AddCluster registers a cluster. A nil params leaves the cluster without
// governance parameters.
func (v *StaticVisitor) AddCluster(id common.ClusterID, reserve common.Address, params *GovParams) {
	v.clusters[id] = &entry{reserve: reserve, params: params}
}

// amount returns a copy of v, reading nil as zero.
func amount(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

// Clusters returns the ids of every registered cluster.
func (v *StaticVisitor) Clusters() []common.ClusterID {
	ids := make([]common.ClusterID, 0, len(v.clusters))
	for id := range v.clusters {
		ids = append(ids, id)
	}
	return ids
}

func (v *StaticVisitor) govParams(id common.ClusterID) (*GovParams, error) {
	e, ok := v.clusters[id]
	if !ok {
		return nil, ErrClusterDoesNotExist
	}
	if e.params == nil {
		return nil, ErrGovParamsNotSet
	}
	return e.params, nil
}

func (v *StaticVisitor) EnsureCluster(id common.ClusterID) error {
	if _, ok := v.clusters[id]; !ok {
		return ErrClusterDoesNotExist
	}
	return nil
}

func (v *StaticVisitor) GetReserveAccountID(id common.ClusterID) (common.Address, error) {
	e, ok := v.clusters[id]
	if !ok {
		return common.Address{}, ErrClusterDoesNotExist
	}
	return e.reserve, nil
}

func (v *StaticVisitor) GetBondSize(id common.ClusterID, nodeType common.NodeType) (*uint256.Int, error) {
	p, err := v.govParams(id)
	if err != nil {
		return nil, err
	}
	switch nodeType {
	case common.StorageNode:
		return amount(p.StorageBondSize), nil
	case common.CDNNode:
		return amount(p.CDNBondSize), nil
	}
	return nil, fmt.Errorf("%w: %d", errUnknownNodeType, nodeType)
}

func (v *StaticVisitor) GetChillDelay(id common.ClusterID, nodeType common.NodeType) (uint64, error) {
	p, err := v.govParams(id)
	if err != nil {
		return 0, err
	}
	switch nodeType {
	case common.StorageNode:
		return p.StorageChillDelay, nil
	case common.CDNNode:
		return p.CDNChillDelay, nil
	}
	return 0, fmt.Errorf("%w: %d", errUnknownNodeType, nodeType)
}

func (v *StaticVisitor) GetUnbondingDelay(id common.ClusterID, nodeType common.NodeType) (uint64, error) {
	p, err := v.govParams(id)
	if err != nil {
		return 0, err
	}
	switch nodeType {
	case common.StorageNode:
		return p.StorageUnbondingDelay, nil
	case common.CDNNode:
		return p.CDNUnbondingDelay, nil
	}
	return 0, fmt.Errorf("%w: %d", errUnknownNodeType, nodeType)
}

func (v *StaticVisitor) GetPricingParams(id common.ClusterID) (*PricingParams, error) {
	p, err := v.govParams(id)
	if err != nil {
		return nil, err
	}
	pricing := p.PricingParams
	return &pricing, nil
}

func (v *StaticVisitor) GetFeesParams(id common.ClusterID) (*FeesParams, error) {
	p, err := v.govParams(id)
	if err != nil {
		return nil, err
	}
	fees := p.FeesParams
	return &fees, nil
}

func (v *StaticVisitor) GetBondingParams(id common.ClusterID) (*BondingParams, error) {
	p, err := v.govParams(id)
	if err != nil {
		return nil, err
	}
	b := p.BondingParams
	b.StorageBondSize = amount(p.StorageBondSize)
	b.CDNBondSize = amount(p.CDNBondSize)
	return &b, nil
}

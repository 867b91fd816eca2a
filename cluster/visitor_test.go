package cluster

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tos-network/ddc/common"
)

var (
	testCluster = common.HexToClusterID("0x0000000000000000000000000000000000000001")
	bareCluster = common.HexToClusterID("0x0000000000000000000000000000000000000002")
	reserve     = common.HexToAddress("0xee")
)

func testParams() *GovParams {
	return &GovParams{
		FeesParams: FeesParams{TreasuryShare: 1_000_000, ValidatorsShare: 10_000_000, ClusterReserveShare: 2_000_000},
		BondingParams: BondingParams{
			StorageBondSize:       uint256.NewInt(100),
			StorageChillDelay:     50,
			StorageUnbondingDelay: 10,
			CDNBondSize:           uint256.NewInt(200),
			CDNChillDelay:         60,
			CDNUnbondingDelay:     20,
		},
		PricingParams: PricingParams{UnitPerMBStored: 1, UnitPerMBStreamed: 2, UnitPerPutRequest: 3, UnitPerGetRequest: 4},
	}
}

func TestStaticVisitorQueries(t *testing.T) {
	v := NewStaticVisitor()
	v.AddCluster(testCluster, reserve, testParams())

	require.NoError(t, v.EnsureCluster(testCluster))

	bond, err := v.GetBondSize(testCluster, common.CDNNode)
	require.NoError(t, err)
	require.Equal(t, uint64(200), bond.Uint64())

	// Returned sizes are copies.
	bond.SetUint64(1)
	again, _ := v.GetBondSize(testCluster, common.CDNNode)
	require.Equal(t, uint64(200), again.Uint64())

	delay, err := v.GetChillDelay(testCluster, common.StorageNode)
	require.NoError(t, err)
	require.Equal(t, uint64(50), delay)

	delay, err = v.GetUnbondingDelay(testCluster, common.CDNNode)
	require.NoError(t, err)
	require.Equal(t, uint64(20), delay)

	pricing, err := v.GetPricingParams(testCluster)
	require.NoError(t, err)
	require.Equal(t, uint64(4), pricing.UnitPerGetRequest)

	fees, err := v.GetFeesParams(testCluster)
	require.NoError(t, err)
	require.Equal(t, Perbill(10_000_000), fees.ValidatorsShare)

	acc, err := v.GetReserveAccountID(testCluster)
	require.NoError(t, err)
	require.Equal(t, reserve, acc)

	_, err = v.GetBondSize(testCluster, common.NodeType(9))
	require.Error(t, err)
}

func TestStaticVisitorErrors(t *testing.T) {
	v := NewStaticVisitor()
	v.AddCluster(bareCluster, reserve, nil)

	_, err := v.GetBondSize(testCluster, common.StorageNode)
	require.ErrorIs(t, err, ErrClusterDoesNotExist)
	require.ErrorIs(t, err, common.ErrUpstreamConfig)

	_, err = v.GetChillDelay(bareCluster, common.StorageNode)
	require.ErrorIs(t, err, ErrGovParamsNotSet)

	// A cluster without params still exists.
	require.NoError(t, v.EnsureCluster(bareCluster))
	_, err = v.GetReserveAccountID(bareCluster)
	require.NoError(t, err)
	_, err = v.GetBondingParams(bareCluster)
	require.True(t, errors.Is(err, common.ErrUpstreamConfig))
}

func TestConfigConversion(t *testing.T) {
	cfgs := []Config{
		{ID: testCluster, ReserveAccount: reserve, Params: &GovParamsConfig{
			StorageBondSize:       "100000000000000000000",
			CDNBondSize:           "5",
			StorageUnbondingDelay: 10,
			TreasuryShare:         10,
		}},
		{ID: bareCluster},
	}
	v, err := NewStaticVisitorFromConfig(cfgs)
	require.NoError(t, err)

	bond, err := v.GetBondSize(testCluster, common.StorageNode)
	require.NoError(t, err)
	require.Equal(t, "100000000000000000000", bond.ToBig().String())

	_, err = v.GetBondSize(bareCluster, common.StorageNode)
	require.ErrorIs(t, err, ErrGovParamsNotSet)
	require.Len(t, v.Clusters(), 2)
}

func TestConfigValidateReportsAll(t *testing.T) {
	cfgs := []Config{
		{ID: testCluster, Params: &GovParamsConfig{StorageBondSize: "-1", CDNBondSize: "abc"}},
		{ID: testCluster, Params: &GovParamsConfig{TreasuryShare: uint32(OnePerbill), ValidatorsShare: 1}},
	}
	err := Validate(cfgs)
	require.Error(t, err)
	for _, want := range []string{"StorageBondSize", "CDNBondSize", "duplicate id", "fee shares"} {
		require.Contains(t, err.Error(), want)
	}
	_, err = NewStaticVisitorFromConfig(cfgs)
	require.Error(t, err)
}

func TestStaticVisitorNilBondSize(t *testing.T) {
	v := NewStaticVisitor()
	v.AddCluster(testCluster, reserve, &GovParams{})

	for _, kind := range []common.NodeType{common.StorageNode, common.CDNNode} {
		size, err := v.GetBondSize(testCluster, kind)
		require.NoError(t, err)
		require.True(t, size.IsZero())
	}
	b, err := v.GetBondingParams(testCluster)
	require.NoError(t, err)
	require.True(t, b.StorageBondSize.IsZero())
	require.True(t, b.CDNBondSize.IsZero())
}

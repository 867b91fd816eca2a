package cluster

import (
	"fmt"
	"math/big"

	mapset "github.com/deckarep/golang-set"
	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
)

// Config describes one cluster in the node configuration file. A cluster
// without Params exists but has no governance parameters.
type Config struct {
	ID             common.ClusterID
	ReserveAccount common.Address
	Params         *GovParamsConfig `toml:",omitempty"`
}

// GovParamsConfig is the file representation of GovParams. Bond sizes are
// decimal strings because they overflow 64 bits.
type GovParamsConfig struct {
	TreasuryShare       uint32
	ValidatorsShare     uint32
	ClusterReserveShare uint32

	StorageBondSize       string
	StorageChillDelay     uint64
	StorageUnbondingDelay uint64
	CDNBondSize           string
	CDNChillDelay         uint64
	CDNUnbondingDelay     uint64

	UnitPerMBStored   uint64
	UnitPerMBStreamed uint64
	UnitPerPutRequest uint64
	UnitPerGetRequest uint64
}

func parseBalance(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid balance %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("balance %q overflows 256 bits", s)
	}
	return v, nil
}

// GovParams converts the file representation, reporting every invalid field.
func (c *GovParamsConfig) GovParams() (*GovParams, error) {
	var (
		errs   error
		params = &GovParams{
			FeesParams: FeesParams{
				TreasuryShare:       Perbill(c.TreasuryShare),
				ValidatorsShare:     Perbill(c.ValidatorsShare),
				ClusterReserveShare: Perbill(c.ClusterReserveShare),
			},
			BondingParams: BondingParams{
				StorageChillDelay:     c.StorageChillDelay,
				StorageUnbondingDelay: c.StorageUnbondingDelay,
				CDNChillDelay:         c.CDNChillDelay,
				CDNUnbondingDelay:     c.CDNUnbondingDelay,
			},
			PricingParams: PricingParams{
				UnitPerMBStored:   c.UnitPerMBStored,
				UnitPerMBStreamed: c.UnitPerMBStreamed,
				UnitPerPutRequest: c.UnitPerPutRequest,
				UnitPerGetRequest: c.UnitPerGetRequest,
			},
		}
	)
	var err error
	if params.StorageBondSize, err = parseBalance(c.StorageBondSize); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("StorageBondSize: %w", err))
	}
	if params.CDNBondSize, err = parseBalance(c.CDNBondSize); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("CDNBondSize: %w", err))
	}
	shares := uint64(c.TreasuryShare) + uint64(c.ValidatorsShare) + uint64(c.ClusterReserveShare)
	if shares > uint64(OnePerbill) {
		errs = multierror.Append(errs, fmt.Errorf("fee shares sum to %d parts per billion, above %d", shares, OnePerbill))
	}
	if errs != nil {
		return nil, errs
	}
	return params, nil
}

// Validate checks a list of cluster configs for duplicates and bad params.
func Validate(cfgs []Config) error {
	var errs error
	seen := mapset.NewThreadUnsafeSet()
	for i, c := range cfgs {
		if !seen.Add(c.ID) {
			errs = multierror.Append(errs, fmt.Errorf("cluster %d: duplicate id %s", i, c.ID))
		}
		if c.Params != nil {
			if _, err := c.Params.GovParams(); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("cluster %s: %w", c.ID, err))
			}
		}
	}
	return errs
}

// NewStaticVisitorFromConfig builds a visitor serving the configured clusters.
func NewStaticVisitorFromConfig(cfgs []Config) (*StaticVisitor, error) {
	if err := Validate(cfgs); err != nil {
		return nil, err
	}
	v := NewStaticVisitor()
	for _, c := range cfgs {
		var params *GovParams
		if c.Params != nil {
			params, _ = c.Params.GovParams()
		}
		v.AddCluster(c.ID, c.ReserveAccount, params)
	}
	return v, nil
}

// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

// Package ddcconfig contains the configuration of a ddc state directory.
package ddcconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"reflect"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/naoina/toml"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/metrics"
	"github.com/tos-network/ddc/params"
)

// Config is the top level configuration.
type Config struct {
	// DataDir holds the LevelDB state. Empty means an in-memory database.
	DataDir string

	DatabaseCache   int
	DatabaseHandles int

	Log     log.Config
	Metrics metrics.Config

	// Clusters back the static cluster visitor.
	Clusters []cluster.Config `toml:",omitempty"`
}

// Defaults contains default settings.
var Defaults = Config{
	DataDir:         "~/.ddc",
	DatabaseCache:   16,
	DatabaseHandles: 64,
	Log:             log.DefaultConfig,
	Metrics:         metrics.DefaultConfig,
}

// DevClusterID is the id of the cluster installed by DevConfig.
var DevClusterID = common.HexToClusterID("0x0000000000000000000000000000000000000001")

// DevConfig returns the defaults plus a single cluster with small bonds and
// short delays, useful for local experiments.
func DevConfig() Config {
	bond := new(big.Int).Mul(big.NewInt(100), big.NewInt(params.CERE)).String()
	cfg := Defaults
	cfg.Log.Level = "debug"
	cfg.Clusters = []cluster.Config{{
		ID:             DevClusterID,
		ReserveAccount: common.HexToAddress("0x01"),
		Params: &cluster.GovParamsConfig{
			TreasuryShare:         10_000_000,
			ValidatorsShare:       10_000_000,
			ClusterReserveShare:   10_000_000,
			StorageBondSize:       bond,
			StorageChillDelay:     10,
			StorageUnbondingDelay: 10,
			CDNBondSize:           bond,
			CDNChillDelay:         10,
			CDNUnbondingDelay:     10,
			UnitPerMBStored:       1,
			UnitPerMBStreamed:     1,
			UnitPerPutRequest:     1,
			UnitPerGetRequest:     1,
		},
	}}
	return cfg
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs error
	if _, err := log.LvlFromString(c.Log.Level); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log: %w", err))
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = multierror.Append(errs, fmt.Errorf("metrics: port %d out of range", c.Metrics.Port))
	}
	if c.DatabaseCache < 0 {
		errs = multierror.Append(errs, fmt.Errorf("database cache %d is negative", c.DatabaseCache))
	}
	if c.DatabaseHandles < 0 {
		errs = multierror.Append(errs, fmt.Errorf("database handles %d is negative", c.DatabaseHandles))
	}
	if err := cluster.Validate(c.Clusters); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("clusters: %w", err))
	}
	return errs
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// Decode reads a TOML document from r into cfg. Fields absent from the
// document keep their current value.
func Decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
}

// Load reads file on top of the defaults.
func Load(file string) (Config, error) {
	cfg := Defaults
	f, err := os.Open(file)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = Decode(f, &cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return cfg, err
}

// Dump encodes cfg as TOML.
func Dump(cfg *Config) ([]byte, error) {
	return tomlSettings.Marshal(cfg)
}

// Visitor builds the static cluster visitor described by the configuration.
func (c *Config) Visitor() (*cluster.StaticVisitor, error) {
	return cluster.NewStaticVisitorFromConfig(c.Clusters)
}

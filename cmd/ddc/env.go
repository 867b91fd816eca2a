package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/rawdb"
	"github.com/tos-network/ddc/core/state"
	"github.com/tos-network/ddc/ddcdb"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/sysaction"
)

var errMissingFrom = errors.New("missing --from account")

// env is an opened state directory.
type env struct {
	disk     ddcdb.KeyValueStore
	state    *state.StateDB
	clusters *cluster.StaticVisitor
}

func openEnv(ctx *cli.Context) (*env, error) {
	cfg := currentConfig(ctx)
	clusters, err := cfg.Visitor()
	if err != nil {
		return nil, err
	}
	var disk ddcdb.KeyValueStore
	if cfg.DataDir == "" {
		log.Warn("No data directory configured, using an in-memory state")
		disk = rawdb.NewMemoryDatabase()
	} else {
		disk, err = rawdb.NewLevelDBDatabase(filepath.Join(cfg.DataDir, "state"), cfg.DatabaseCache, cfg.DatabaseHandles, false)
		if err != nil {
			return nil, fmt.Errorf("open state: %w", err)
		}
	}
	sdb, err := state.New(state.NewDatabase(disk))
	if err != nil {
		disk.Close()
		return nil, err
	}
	return &env{disk: disk, state: sdb, clusters: clusters}, nil
}

func (e *env) Close() error { return e.disk.Close() }

// era resolves the era an action executes in. Eras never move backwards.
func (e *env) era(ctx *cli.Context) (uint64, error) {
	last, _ := rawdb.ReadLastEra(e.disk)
	if !ctx.IsSet(eraFlag.Name) {
		return last, nil
	}
	era := ctx.Uint64(eraFlag.Name)
	if era < last {
		return 0, fmt.Errorf("era %d is behind the last applied era %d", era, last)
	}
	return era, nil
}

// execute runs one encoded system action against the state and persists the
// result only if the action succeeds.
func (e *env) execute(ctx *cli.Context, data []byte) error {
	from, err := parseAddress(ctx.String(fromFlag.Name))
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	era, err := e.era(ctx)
	if err != nil {
		return err
	}
	sctx := &sysaction.Context{
		From:       from,
		Era:        era,
		Privileged: ctx.Bool(rootFlag.Name),
		StateDB:    e.state,
		Clusters:   e.clusters,
	}
	if err := sysaction.Execute(sctx, data); err != nil {
		return err
	}
	if err := e.state.Commit(); err != nil {
		return err
	}
	rawdb.WriteLastEra(e.disk, era)
	log.Info("Applied system action", "from", from, "era", era)
	return nil
}

// run opens the state, executes the action built from payload and closes it.
func run(ctx *cli.Context, kind sysaction.ActionKind, payload interface{}) error {
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		return err
	}
	return runRaw(ctx, data)
}

func runRaw(ctx *cli.Context, data []byte) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return e.execute(ctx, data)
}

// inspect opens the state and hands it to fn without committing.
func inspect(ctx *cli.Context, fn func(e *env) error) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func parseAddress(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, errMissingFrom
	}
	var a common.Address
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return common.Address{}, err
	}
	return a, nil
}

func parseClusterID(s string) (common.ClusterID, error) {
	var id common.ClusterID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return common.ClusterID{}, fmt.Errorf("cluster id %q: %w", s, err)
	}
	return id, nil
}

// argAt returns positional argument i or a usage error.
func argAt(ctx *cli.Context, i int, name string) (string, error) {
	if ctx.NArg() <= i {
		return "", fmt.Errorf("missing argument <%s>", name)
	}
	return ctx.Args().Get(i), nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/staking"
	"github.com/tos-network/ddc/sysaction"
)

var (
	controllerFlag = &cli.StringFlag{
		Name:  "controller",
		Usage: "Controller account of the bond (defaults to --from)",
	}

	stakeCommand = &cli.Command{
		Name:  "stake",
		Usage: "Bond funds and take part in clusters",
		Subcommands: []*cli.Command{
			{
				Name:      "bond",
				Usage:     "Bond --from as stash to a node",
				ArgsUsage: "<kind:0xkey> <amount>",
				Flags:     []cli.Flag{controllerFlag},
				Action:    stakeBond,
			},
			{
				Name:      "unbond",
				Usage:     "Schedule part of the active bond for withdrawal",
				ArgsUsage: "<amount>",
				Action:    stakeUnbond,
			},
			{
				Name:   "withdraw",
				Usage:  "Release unbonded funds whose era has passed",
				Action: stakeWithdraw,
			},
			{
				Name:      "store",
				Usage:     "Declare the intention to store data for a cluster",
				ArgsUsage: "<cluster>",
				Action:    stakeStore,
			},
			{
				Name:      "serve",
				Usage:     "Declare the intention to serve content for a cluster",
				ArgsUsage: "<cluster>",
				Action:    stakeServe,
			},
			{
				Name:   "chill",
				Usage:  "Request, or complete, leaving the current cluster",
				Action: stakeChill,
			},
			{
				Name:      "set-controller",
				Usage:     "Move the ledger of stash --from to a new controller",
				ArgsUsage: "<controller>",
				Action:    stakeSetController,
			},
			{
				Name:      "set-node",
				Usage:     "Rebind stash --from to another node",
				ArgsUsage: "<kind:0xkey>",
				Action:    stakeSetNode,
			},
			{
				Name:      "ledger",
				Usage:     "Print the ledger of a controller and the stash membership",
				ArgsUsage: "<controller>",
				Action:    stakeLedger,
			},
		},
	}
)

func stakeBond(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	amount, err := argAt(ctx, 1, "amount")
	if err != nil {
		return err
	}
	if _, err := sysaction.ParseAmount(amount); err != nil {
		return err
	}
	controller := ctx.String(controllerFlag.Name)
	if controller == "" {
		controller = ctx.String(fromFlag.Name)
	}
	ctrl, err := parseAddress(controller)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	return run(ctx, sysaction.ActionStakeBond, sysaction.BondPayload{
		Controller: ctrl,
		NodePubKey: key,
		Amount:     amount,
	})
}

func stakeUnbond(ctx *cli.Context) error {
	amount, err := argAt(ctx, 0, "amount")
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionStakeUnbond, sysaction.AmountPayload{Amount: amount})
}

func stakeWithdraw(ctx *cli.Context) error {
	return run(ctx, sysaction.ActionStakeWithdrawUnbonded, nil)
}

func stakeStore(ctx *cli.Context) error { return stakeParticipate(ctx, sysaction.ActionStakeStore) }
func stakeServe(ctx *cli.Context) error { return stakeParticipate(ctx, sysaction.ActionStakeServe) }

func stakeParticipate(ctx *cli.Context, kind sysaction.ActionKind) error {
	s, err := argAt(ctx, 0, "cluster")
	if err != nil {
		return err
	}
	id, err := parseClusterID(s)
	if err != nil {
		return err
	}
	return run(ctx, kind, sysaction.ClusterPayload{ClusterID: id})
}

func stakeChill(ctx *cli.Context) error {
	return run(ctx, sysaction.ActionStakeChill, nil)
}

func stakeSetController(ctx *cli.Context) error {
	s, err := argAt(ctx, 0, "controller")
	if err != nil {
		return err
	}
	ctrl, err := parseAddress(s)
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionStakeSetController, sysaction.ControllerPayload{Controller: ctrl})
}

func stakeSetNode(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionStakeSetNode, sysaction.NodeKeyPayload{PubKey: key})
}

type chunkView struct {
	Value string
	Era   uint64
}

// ledgerView is the printed form of a ledger and its stash.
type ledgerView struct {
	Controller string
	Stash      string
	Node       string
	Total      string
	Active     string
	Unlocking  []chunkView
	Role       string
	Cluster    string
	ChillSince string
}

func stakeLedger(ctx *cli.Context) error {
	s, err := argAt(ctx, 0, "controller")
	if err != nil {
		return err
	}
	controller, err := parseAddress(s)
	if err != nil {
		return err
	}
	return inspect(ctx, func(e *env) error {
		l, err := staking.Ledger(e.state, controller)
		if err != nil {
			return err
		}
		view := ledgerView{
			Controller: controller.Hex(),
			Stash:      l.Stash.Hex(),
			Total:      l.Total.ToBig().String(),
			Active:     l.Active.ToBig().String(),
		}
		for _, c := range l.Unlocking {
			view.Unlocking = append(view.Unlocking, chunkView{Value: c.Value.ToBig().String(), Era: c.Era})
		}
		if key, ok := staking.StashNode(e.state, l.Stash); ok {
			view.Node = key.String()
		}
		if role, id, ok := staking.Membership(e.state, l.Stash); ok {
			view.Role = role.String()
			view.Cluster = id.Hex()
		}
		if era, ok := staking.ChillRequestedAt(e.state, l.Stash); ok {
			view.ChillSince = strconv.FormatUint(era, 10)
		}
		dumper.Fdump(ctx.App.Writer, view)
		return nil
	})
}

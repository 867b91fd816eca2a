package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/nodes"
	"github.com/tos-network/ddc/staking"
	"github.com/tos-network/ddc/sysaction"
)

var (
	managerCommand = &cli.Command{
		Name:  "manager",
		Usage: "Maintain the cluster manager allow-list (requires --root)",
		Subcommands: []*cli.Command{
			{
				Name:      "allow",
				Usage:     "Add an account to the allow-list",
				ArgsUsage: "<account>",
				Action:    managerAllow,
			},
			{
				Name:      "disallow",
				Usage:     "Remove an account from the allow-list",
				ArgsUsage: "<account>",
				Action:    managerDisallow,
			},
			{
				Name:   "list",
				Usage:  "Print the allow-list in insertion order",
				Action: managerList,
			},
		},
	}

	clusterCommand = &cli.Command{
		Name:  "cluster",
		Usage: "Assign nodes to clusters and inspect clusters",
		Subcommands: []*cli.Command{
			{
				Name:      "add-node",
				Usage:     "Assign a node to a cluster (cluster managers only)",
				ArgsUsage: "<cluster> <kind:0xkey>",
				Action:    clusterAddNode,
			},
			{
				Name:      "remove-node",
				Usage:     "Unassign a node from a cluster (cluster managers only)",
				ArgsUsage: "<cluster> <kind:0xkey>",
				Action:    clusterRemoveNode,
			},
			{
				Name:      "show",
				Usage:     "Print cluster parameters and members",
				ArgsUsage: "<cluster>",
				Action:    clusterShow,
			},
		},
	}

	applyCommand = &cli.Command{
		Name:      "apply",
		Usage:     "Execute a raw JSON system action",
		ArgsUsage: "<file|->",
		Description: `
The apply command reads a system action of the form
  {"action": "STAKE_BOND", "payload": {...}}
from a file, or from standard input when the file is "-", and executes it.`,
		Action: applyAction,
	}
)

func managerAllow(ctx *cli.Context) error {
	return managerAction(ctx, sysaction.ActionClusterManagerAllow)
}

func managerDisallow(ctx *cli.Context) error {
	return managerAction(ctx, sysaction.ActionClusterManagerDisallow)
}

func managerAction(ctx *cli.Context, kind sysaction.ActionKind) error {
	s, err := argAt(ctx, 0, "account")
	if err != nil {
		return err
	}
	account, err := parseAddress(s)
	if err != nil {
		return err
	}
	return run(ctx, kind, sysaction.AccountPayload{Account: account})
}

func managerList(ctx *cli.Context) error {
	return inspect(ctx, func(e *env) error {
		managers := staking.ClusterManagers(e.state)
		if len(managers) == 0 {
			fmt.Fprintln(ctx.App.Writer, "No cluster managers")
			return nil
		}
		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"#", "Account"})
		for i, m := range managers {
			table.Append([]string{fmt.Sprint(i + 1), m.Hex()})
		}
		table.Render()
		return nil
	})
}

func clusterAddNode(ctx *cli.Context) error {
	return clusterNodeAction(ctx, sysaction.ActionClusterAddNode)
}

func clusterRemoveNode(ctx *cli.Context) error {
	return clusterNodeAction(ctx, sysaction.ActionClusterRemoveNode)
}

func clusterNodeAction(ctx *cli.Context, kind sysaction.ActionKind) error {
	s, err := argAt(ctx, 0, "cluster")
	if err != nil {
		return err
	}
	id, err := parseClusterID(s)
	if err != nil {
		return err
	}
	key, err := nodeKeyArg(ctx, 1)
	if err != nil {
		return err
	}
	return run(ctx, kind, sysaction.ClusterNodePayload{ClusterID: id, NodePubKey: key})
}

// clusterView is the printed form of a cluster.
type clusterView struct {
	ID             string
	ReserveAccount string
	BondSize       map[string]string
	ChillDelay     map[string]uint64
	UnbondingDelay map[string]uint64
	Fees           interface{}
	Pricing        interface{}
	Nodes          uint64
	Storage        []string
	Edge           []string
}

func clusterShow(ctx *cli.Context) error {
	s, err := argAt(ctx, 0, "cluster")
	if err != nil {
		return err
	}
	id, err := parseClusterID(s)
	if err != nil {
		return err
	}
	return inspect(ctx, func(e *env) error {
		reserve, err := e.clusters.GetReserveAccountID(id)
		if err != nil {
			return err
		}
		view := clusterView{
			ID:             id.Hex(),
			ReserveAccount: reserve.Hex(),
			BondSize:       make(map[string]string),
			ChillDelay:     make(map[string]uint64),
			UnbondingDelay: make(map[string]uint64),
			Nodes:          nodes.NewClusterManager(e.state).NodeCount(id),
		}
		for _, role := range []staking.Role{staking.RoleStorage, staking.RoleEdge} {
			kind := role.NodeType()
			if size, err := e.clusters.GetBondSize(id, kind); err == nil {
				view.BondSize[kind.String()] = size.ToBig().String()
			}
			if d, err := e.clusters.GetChillDelay(id, kind); err == nil {
				view.ChillDelay[kind.String()] = d
			}
			if d, err := e.clusters.GetUnbondingDelay(id, kind); err == nil {
				view.UnbondingDelay[kind.String()] = d
			}
			for _, m := range staking.Members(e.state, id, role) {
				if role == staking.RoleStorage {
					view.Storage = append(view.Storage, m.Hex())
				} else {
					view.Edge = append(view.Edge, m.Hex())
				}
			}
		}
		if fees, err := e.clusters.GetFeesParams(id); err == nil {
			view.Fees = *fees
		}
		if pricing, err := e.clusters.GetPricingParams(id); err == nil {
			view.Pricing = *pricing
		}
		dumper.Fdump(ctx.App.Writer, view)
		return nil
	})
}

func applyAction(ctx *cli.Context) error {
	file, err := argAt(ctx, 0, "file")
	if err != nil {
		return err
	}
	var data []byte
	if file == "-" {
		data, err = io.ReadAll(ctx.App.Reader)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return err
	}
	return runRaw(ctx, data)
}

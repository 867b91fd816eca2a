package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/nodes"
	"github.com/tos-network/ddc/sysaction"
)

var (
	nodeParamsFlag = &cli.StringFlag{
		Name:  "params",
		Usage: "Raw hex encoded node props (overrides the endpoint flags)",
	}
	nodeHostFlag = &cli.StringFlag{
		Name:  "host",
		Usage: "Host the node is reachable at",
	}
	nodeHTTPPortFlag = &cli.UintFlag{
		Name:  "http.port",
		Usage: "HTTP port of the node",
	}
	nodeGRPCPortFlag = &cli.UintFlag{
		Name:  "grpc.port",
		Usage: "gRPC port of the node",
	}
	nodeP2PPortFlag = &cli.UintFlag{
		Name:  "p2p.port",
		Usage: "P2P port of the node",
	}
	nodePropsFlags = []cli.Flag{
		nodeParamsFlag,
		nodeHostFlag,
		nodeHTTPPortFlag,
		nodeGRPCPortFlag,
		nodeP2PPortFlag,
	}

	nodeCommand = &cli.Command{
		Name:  "node",
		Usage: "Manage the node registry",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Register a node owned by --from",
				ArgsUsage: "<kind:0xkey>",
				Flags:     nodePropsFlags,
				Action:    nodeCreate,
			},
			{
				Name:      "remove",
				Usage:     "Remove a node that is not assigned to a cluster",
				ArgsUsage: "<kind:0xkey>",
				Action:    nodeRemove,
			},
			{
				Name:      "set-params",
				Usage:     "Replace the props of a node",
				ArgsUsage: "<kind:0xkey>",
				Flags:     nodePropsFlags,
				Action:    nodeSetParams,
			},
			{
				Name:      "show",
				Usage:     "Print a registered node",
				ArgsUsage: "<kind:0xkey>",
				Action:    nodeShow,
			},
		},
	}
)

func nodeKeyArg(ctx *cli.Context, i int) (common.NodePubKey, error) {
	s, err := argAt(ctx, i, "kind:0xkey")
	if err != nil {
		return common.NodePubKey{}, err
	}
	return common.ParseNodePubKey(s)
}

// nodeProps builds the node props from either --params or the endpoint flags.
func nodeProps(ctx *cli.Context) ([]byte, error) {
	if ctx.IsSet(nodeParamsFlag.Name) {
		return hexutil.Decode(ctx.String(nodeParamsFlag.Name))
	}
	for _, f := range []*cli.UintFlag{nodeHTTPPortFlag, nodeGRPCPortFlag, nodeP2PPortFlag} {
		if ctx.Uint(f.Name) > 0xffff {
			return nil, fmt.Errorf("--%s: port %d out of range", f.Name, ctx.Uint(f.Name))
		}
	}
	return nodes.EndpointParams{
		Host:     ctx.String(nodeHostFlag.Name),
		HTTPPort: uint16(ctx.Uint(nodeHTTPPortFlag.Name)),
		GRPCPort: uint16(ctx.Uint(nodeGRPCPortFlag.Name)),
		P2PPort:  uint16(ctx.Uint(nodeP2PPortFlag.Name)),
	}.Encode()
}

func nodeCreate(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	props, err := nodeProps(ctx)
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionNodeCreate, sysaction.NodeCreatePayload{
		PubKey: key,
		Params: sysaction.NodeParams{Type: key.Type, Params: props},
	})
}

func nodeRemove(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionNodeRemove, sysaction.NodeKeyPayload{PubKey: key})
}

func nodeSetParams(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	props, err := nodeProps(ctx)
	if err != nil {
		return err
	}
	return run(ctx, sysaction.ActionNodeSetParams, sysaction.NodeCreatePayload{
		PubKey: key,
		Params: sysaction.NodeParams{Type: key.Type, Params: props},
	})
}

// nodeView is the printed form of a node.
type nodeView struct {
	PubKey   string
	Provider string
	Cluster  string
	Props    string
	Endpoint *nodes.EndpointParams
}

func nodeShow(ctx *cli.Context) error {
	key, err := nodeKeyArg(ctx, 0)
	if err != nil {
		return err
	}
	return inspect(ctx, func(e *env) error {
		n, err := nodes.Get(e.state, key)
		if err != nil {
			return err
		}
		view := nodeView{
			PubKey:   n.PubKey().String(),
			Provider: n.ProviderID().Hex(),
			Props:    hexutil.Encode(n.Props()),
		}
		if id := n.ClusterID(); id != nil {
			view.Cluster = id.Hex()
		}
		if ep, err := nodes.DecodeEndpointParams(n.Props()); err == nil {
			view.Endpoint = ep
		}
		dumper.Fdump(ctx.App.Writer, view)
		return nil
	})
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

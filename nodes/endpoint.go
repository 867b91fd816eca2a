package nodes

import (
	"encoding/json"
	"fmt"
)

// EndpointParams is the conventional content of node props: where the node
// can be reached.
type EndpointParams struct {
	Host     string `json:"host"`
	HTTPPort uint16 `json:"http_port"`
	GRPCPort uint16 `json:"grpc_port"`
	P2PPort  uint16 `json:"p2p_port"`
}

// Encode returns the props encoding of e.
func (e EndpointParams) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEndpointParams parses props written by EndpointParams.Encode.
func DecodeEndpointParams(props []byte) (*EndpointParams, error) {
	var e EndpointParams
	if err := json.Unmarshal(props, &e); err != nil {
		return nil, fmt.Errorf("nodes: props are not endpoint params: %w", err)
	}
	return &e, nil
}

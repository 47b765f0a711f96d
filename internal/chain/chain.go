// Package chain defines the EVM chains the virtual wallet contract is deployed on
// and the tokens known on each of them.
// All chain-specific values are hardcoded here - no external configuration needed.
package chain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/definix-labs/definix/pkg/helpers"
)

// ID is an EVM chain id.
type ID uint64

// Supported chain ids.
const (
	Ethereum ID = 1
	Optimism ID = 10
	Polygon  ID = 137
	Base     ID = 8453
)

// UnknownChainName is returned by Name for ids outside the registry.
const UnknownChainName = "Unknown Chain"

// ErrUnsupportedChain is returned when a chain id is not in the registry.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Uint64 returns the id as a plain integer.
func (id ID) Uint64() uint64 { return uint64(id) }

// Hex returns the 0x-prefixed hex form used by wallet providers.
func (id ID) Hex() string { return helpers.Uint64ToHex(uint64(id)) }

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// Descriptor holds everything needed to talk about, reach, or add a chain.
type Descriptor struct {
	ID   ID     `json:"chainId" yaml:"chain_id"`
	Name string `json:"name" yaml:"name"`

	// RPCURLPrefix is completed by appending the RPC provider API key.
	RPCURLPrefix string `json:"rpcUrlPrefix" yaml:"rpc_url_prefix"`
	ExplorerURL  string `json:"explorerUrl" yaml:"explorer_url"`

	NativeName     string `json:"nativeName" yaml:"native_name"`
	NativeSymbol   string `json:"nativeSymbol" yaml:"native_symbol"`
	NativeDecimals uint8  `json:"nativeDecimals" yaml:"native_decimals"`
}

// RPCURL returns the full RPC endpoint for the given API key.
func (d *Descriptor) RPCURL(apiKey string) string {
	return d.RPCURLPrefix + apiKey
}

// ChainIDHex returns the chain id as a 0x-prefixed hex string.
func (d *Descriptor) ChainIDHex() string {
	return d.ID.Hex()
}

// TxURL returns the explorer link for a transaction hash.
func (d *Descriptor) TxURL(hash string) string {
	return strings.TrimRight(d.ExplorerURL, "/") + "/tx/" + hash
}

// AddressURL returns the explorer link for an address.
func (d *Descriptor) AddressURL(addr string) string {
	return strings.TrimRight(d.ExplorerURL, "/") + "/address/" + addr
}

// registry holds all chain descriptors indexed by id.
var registry = make(map[ID]*Descriptor)

// order is the display order of supported chains.
var order []ID

// register adds a chain descriptor to the registry.
func register(d *Descriptor) {
	if _, ok := registry[d.ID]; !ok {
		order = append(order, d.ID)
	}
	registry[d.ID] = d
}

// Get returns the descriptor for a chain id.
func Get(id ID) (*Descriptor, error) {
	d, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChain, uint64(id))
	}
	return d, nil
}

// IsSupported returns true if the chain is registered.
func IsSupported(id ID) bool {
	_, ok := registry[id]
	return ok
}

// Supported returns all registered chain ids in display order.
func Supported() []ID {
	out := make([]ID, len(order))
	copy(out, order)
	return out
}

// Name returns the display name of a chain, or UnknownChainName.
func Name(id ID) string {
	if d, ok := registry[id]; ok {
		return d.Name
	}
	return UnknownChainName
}

// List returns all registered descriptors in display order.
func List() []*Descriptor {
	out := make([]*Descriptor, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}

package config

import "github.com/ethereum/go-ethereum/common"

// The virtual wallet contract is deployed at the same address on every
// supported chain, so deployments are keyed by environment, not chain.
//
// ALL contract addresses MUST be defined here. Token addresses live in the
// chain registry.

// EVMContractAddresses holds contract addresses for one environment.
type EVMContractAddresses struct {
	// VirtualWallet is the DeFiniX virtual wallet contract.
	VirtualWallet common.Address
}

// evmContractRegistry maps environment -> contract addresses
var evmContractRegistry = map[Environment]*EVMContractAddresses{
	Production: {
		VirtualWallet: common.HexToAddress("0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D"),
	},
	Development: {
		VirtualWallet: common.HexToAddress("0x797ADa8Bca5B5Da273C0bbD677EBaC447884B23D"),
	},
}

// GetEVMContracts returns contract addresses for an environment.
// Returns nil if the environment is not registered.
func GetEVMContracts(env Environment) *EVMContractAddresses {
	return evmContractRegistry[env]
}

// GetVirtualWalletContract returns the virtual wallet address for an environment.
// Returns the zero address if the environment is not registered.
func GetVirtualWalletContract(env Environment) common.Address {
	if contracts := evmContractRegistry[env]; contracts != nil {
		return contracts.VirtualWallet
	}
	return common.Address{}
}

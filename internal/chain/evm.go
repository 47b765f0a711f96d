package chain

func init() {
	// ==========================================================================
	// Optimism (chainID 10) - default chain and the read chain
	// ==========================================================================
	register(&Descriptor{
		ID:             Optimism,
		Name:           "Optimism Mainnet",
		RPCURLPrefix:   "https://opt-mainnet.g.alchemy.com/v2/",
		ExplorerURL:    "https://optimistic.etherscan.io",
		NativeName:     "Ether",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
	})

	// ==========================================================================
	// Base (chainID 8453)
	// ==========================================================================
	register(&Descriptor{
		ID:             Base,
		Name:           "Base Mainnet",
		RPCURLPrefix:   "https://base-mainnet.g.alchemy.com/v2/",
		ExplorerURL:    "https://basescan.org",
		NativeName:     "Ether",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
	})

	// ==========================================================================
	// Polygon PoS (chainID 137)
	// ==========================================================================
	register(&Descriptor{
		ID:             Polygon,
		Name:           "Polygon Mainnet",
		RPCURLPrefix:   "https://polygon-mainnet.g.alchemy.com/v2/",
		ExplorerURL:    "https://polygonscan.com",
		NativeName:     "MATIC",
		NativeSymbol:   "MATIC",
		NativeDecimals: 18,
	})

	// ==========================================================================
	// Ethereum (chainID 1)
	// ==========================================================================
	register(&Descriptor{
		ID:             Ethereum,
		Name:           "Ethereum Mainnet",
		RPCURLPrefix:   "https://eth-mainnet.g.alchemy.com/v2/",
		ExplorerURL:    "https://etherscan.io",
		NativeName:     "Ether",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
	})
}

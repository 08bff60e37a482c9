package weth

// TokenAddress is the canonical WETH9 contract on Ethereum mainnet.
const TokenAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

// TokenABI is the minimal interface the wrapper calls.
const TokenABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"wad","type":"uint256"}],"outputs":[]}
]`

const (
	methodBalanceOf = "balanceOf"
	methodDeposit   = "deposit"
	methodWithdraw  = "withdraw"
)

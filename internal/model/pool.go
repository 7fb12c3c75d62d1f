package model

import "github.com/holiman/uint256"

// Pool is a two-token AMM pool snapshot. Reserves and supply carry 18 implied decimals.
// A zero TotalSupply means no LP shares exist yet.
type Pool struct {
	ReserveA    uint256.Int
	ReserveB    uint256.Int
	TotalSupply uint256.Int
}

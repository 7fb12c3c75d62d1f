package model

import "github.com/holiman/uint256"

// Prices holds the USD value of one unit of each pool token, scaled.
type Prices struct {
	PriceA uint256.Int
	PriceB uint256.Int
}

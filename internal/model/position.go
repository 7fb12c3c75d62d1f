package model

import "github.com/holiman/uint256"

// Position is the single insured LP position. OriginalA/OriginalB are the token
// amounts deposited at entry and are never recomputed from the pool.
type Position struct {
	LPAmount  uint256.Int
	OriginalA uint256.Int
	OriginalB uint256.Int
}

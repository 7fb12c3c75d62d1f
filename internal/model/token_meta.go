package model

// TokenMeta captures ERC20 metadata needed to normalize raw token amounts.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

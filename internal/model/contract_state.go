package model

// ContractState is the persisted form of the insurance contract.
// Scaled amounts are stored as base-10 integer strings.
type ContractState struct {
	Initialized bool      `json:"initialized"`
	Owner       string    `json:"owner"`
	Version     uint64    `json:"version"`
	Policy      PolicyBps `json:"policy"`
	ReserveA    string    `json:"reserve_a"`
	ReserveB    string    `json:"reserve_b"`
	TotalSupply string    `json:"total_supply"`
	LPAmount    string    `json:"lp_amount"`
	OriginalA   string    `json:"original_a"`
	OriginalB   string    `json:"original_b"`
	PriceA      string    `json:"price_a"`
	PriceB      string    `json:"price_b"`
	UpdatedAt   string    `json:"updated_at"`
}

package params

// These are the multipliers for DDC token denominations.
// Example: To get the smallest-unit value of an amount in 'CERE', use
//
//	new(big.Int).Mul(value, big.NewInt(params.CERE))
const (
	Unit  = 1
	MUnit = 1e6
	CERE  = 1e10
)

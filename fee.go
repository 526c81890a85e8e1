package goVault

import "math/big"

const (
	// MaxFeeBasisPoints is an exported constant or variable used by the vault engine.
	MaxFeeBasisPoints uint16 = 500
	// BasisPointDenominator is an exported constant or variable used by the vault engine.
	BasisPointDenominator uint16 = 10000
)

// ComputeFee splits amount into (fee, net) using integer basis-point arithmetic:
// fee = floor(amount * feeBasisPoints / 10000), net = amount - fee.
//
// The function is pure and does not revalidate feeBasisPoints against
// [MaxFeeBasisPoints]; that bound is enforced at the point the rate is set.
// A nil or negative amount yields (0, 0). net + fee always equals amount for
// valid inputs.
func ComputeFee(amount *big.Int, feeBasisPoints uint16) (fee, net *big.Int) {
	fee = new(big.Int)
	net = new(big.Int)
	if amount == nil || amount.Sign() <= 0 {
		return fee, net
	}

	fee.Mul(amount, big.NewInt(int64(feeBasisPoints)))
	fee.Quo(fee, big.NewInt(int64(BasisPointDenominator)))
	net.Sub(amount, fee)
	return fee, net
}

package arbitrage

// ComputeSpread tests both arbitrage directions for a candidate pair and
// returns the percentage profit of the better one, after subtracting the
// configured fee/slippage allowance (a fraction of notional, e.g. 0.01 for
// 1%). ok is false when neither direction yields a positive spread; such
// pairs are not arbitrage and never reach the ranker.
//
// Direction 1 buys YES on market1 and NO on market2; it is profitable when
// m1.yes + m2.no < 1. Direction 2 is the converse.
func ComputeSpread(yes1, no1, yes2, no2, feeAllowance float64) (spread float64, ok bool) {
	cost := yes1 + no2
	if alt := no1 + yes2; alt < cost {
		cost = alt
	}

	profit := 1 - cost - feeAllowance
	if profit <= 0 {
		return 0, false
	}
	return profit * 100, true
}

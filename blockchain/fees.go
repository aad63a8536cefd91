package blockchain

// CalculateFee returns the fixed proportional fee for amount.
func CalculateFee(amount float64) float64 {
	return amount * FeeRate
}

// RequiredBalance is the total a sender must hold to move amount.
func RequiredBalance(amount float64) float64 {
	return amount + CalculateFee(amount)
}

package payroll

// ComputeNet mirrors the recalculation procedure: net = basic + allowances - deductions.
func ComputeNet(basic, allowances, deductions float64) float64 {
	return basic + allowances - deductions
}

// MapTransferStatus is a three-way classification; anything not PAID or
// PENDING is Failed.
func MapTransferStatus(paymentStatus string) TransferStatus {
	switch paymentStatus {
	case PaymentStatusPaid:
		return TransferSuccess
	case PaymentStatusPending:
		return TransferPending
	default:
		return TransferFailed
	}
}

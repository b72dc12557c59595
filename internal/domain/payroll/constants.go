package payroll

const (
	BatchStatusDraft      = "DRAFT"
	BatchStatusProcessing = "PROCESSING"
	BatchStatusPaid       = "PAID"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

type TransferStatus string

const (
	TransferSuccess TransferStatus = "Success"
	TransferPending TransferStatus = "Pending"
	TransferFailed  TransferStatus = "Failed"
)

const (
	PlaceholderAccount = "----"
	PlaceholderBank    = "Bank"
)

const (
	DefaultChunkSize     = 500
	DefaultTransferLimit = 20
)

const NotificationTypePayroll = "PAYROLL"

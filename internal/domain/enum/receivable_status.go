package enum

// ReceivableStatus represents the settlement state of an account receivable
type ReceivableStatus string

const (
	ReceivableStatusPending ReceivableStatus = "pending"
	ReceivableStatusPaid    ReceivableStatus = "paid"
)

func (s ReceivableStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s ReceivableStatus) IsValid() bool {
	return s == ReceivableStatusPending || s == ReceivableStatusPaid
}

// Label returns a human readable status
func (s ReceivableStatus) Label() string {
	if s == ReceivableStatusPaid {
		return "Paid"
	}
	return "Pending"
}

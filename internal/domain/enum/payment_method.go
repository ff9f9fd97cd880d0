package enum

// PaymentMethod is how a sale or purchase was paid.
// Values keep the wire format of previously exported data.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "dinheiro"
	PaymentMethodDebitCard  PaymentMethod = "cartao_debito"
	PaymentMethodCreditCard PaymentMethod = "cartao_credito"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodCreditTerm PaymentMethod = "a_prazo"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:       "Cash",
	PaymentMethodDebitCard:  "Debit",
	PaymentMethodCreditCard: "Credit",
	PaymentMethodPix:        "PIX",
	PaymentMethodCreditTerm: "Credit term",
}

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known payment methods
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// IsCreditTerm reports whether the sale is paid later through a receivable
func (m PaymentMethod) IsCreditTerm() bool {
	return m == PaymentMethodCreditTerm
}

// Label returns a human readable name, falling back to the raw value
func (m PaymentMethod) Label() string {
	if l, ok := paymentMethodLabels[m]; ok {
		return l
	}
	return string(m)
}

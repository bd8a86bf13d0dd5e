package delivery

import "github.com/shopspring/decimal"

const (
	PendingFeeLabel        = "Calculé à la prochaine étape"
	PendingFeeSummaryLabel = "Gratuit / En attente"
)

// Quote is the order preview shown while the customer fills the form.
type Quote struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	Fee             decimal.Decimal `json:"fee"`
	Total           decimal.Decimal `json:"total"`
	FeePending      bool            `json:"fee_pending"`
	FeeLabel        string          `json:"fee_label"`
	FeeSummaryLabel string          `json:"fee_summary_label"`
}

func (t *Table) Quote(subtotal decimal.Decimal, city string) Quote {
	fee := t.FeeFor(city)
	q := Quote{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal.Add(fee),
	}
	if fee.IsZero() {
		q.FeePending = true
		q.FeeLabel = PendingFeeLabel
		q.FeeSummaryLabel = PendingFeeSummaryLabel
	} else {
		q.FeeLabel = FormatDH(fee)
		q.FeeSummaryLabel = FormatDH(fee)
	}
	return q
}

// FormatDH renders an amount the way the storefront prints prices, e.g. "20.00 dh".
func FormatDH(d decimal.Decimal) string {
	return d.StringFixed(2) + " dh"
}

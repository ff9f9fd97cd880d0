package service

import (
	"sort"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Placeholder labels for records whose counterpart no longer exists
const (
	LabelCounterSale     = "Counter sale"
	LabelUnknownClient   = "Unknown client"
	LabelUnknownSupplier = "Unknown supplier"
	LabelUnknownProduct  = "Unknown product"
)

// Ledger is the set of records transactions are derived from
type Ledger struct {
	Sales       []entity.Sale
	Purchases   []entity.Purchase
	Receivables []entity.AccountReceivable
	Adjustments []entity.CashAdjustment
	Clients     []entity.Client
	Suppliers   []entity.Supplier
}

// CashFlowSummary is a window of the transaction feed with its totals.
// TotalExpense is an absolute value.
type CashFlowSummary struct {
	Transactions []entity.Transaction `json:"transactions"`
	TotalIncome  decimal.Decimal      `json:"totalIncome"`
	TotalExpense decimal.Decimal      `json:"totalExpense"`
	Balance      decimal.Decimal      `json:"balance"`
}

// ProjectTransactions derives the cash-flow feed, newest first.
// Credit-term sales bring no money in until their receivable is paid, so
// they appear only through the paid receivable, dated when it was paid.
// now dates paid receivables that carry no paid date.
func ProjectTransactions(l Ledger, now time.Time) []entity.Transaction {
	clients := make(map[string]string, len(l.Clients))
	for _, c := range l.Clients {
		clients[c.ID] = c.Name
	}
	suppliers := make(map[string]string, len(l.Suppliers))
	for _, s := range l.Suppliers {
		suppliers[s.ID] = s.Name
	}
	clientName := func(id string) string {
		if name, ok := clients[id]; ok {
			return name
		}
		return LabelUnknownClient
	}

	out := make([]entity.Transaction, 0, len(l.Sales)+len(l.Purchases)+len(l.Receivables)+len(l.Adjustments))

	for _, sale := range l.Sales {
		if sale.PaymentMethod.IsCreditTerm() {
			continue
		}
		description := LabelCounterSale
		if sale.ClientID != "" {
			description = "Sale to " + clientName(sale.ClientID)
		}
		out = append(out, entity.Transaction{
			ID:          "sale-" + sale.ID,
			Date:        sale.Date,
			Description: description,
			Amount:      sale.Total,
			Type:        enum.TransactionTypeIncome,
		})
	}

	for _, p := range l.Purchases {
		name, ok := suppliers[p.SupplierID]
		if !ok {
			name = LabelUnknownSupplier
		}
		out = append(out, entity.Transaction{
			ID:          "purchase-" + p.ID,
			Date:        p.Date,
			Description: "Purchase from " + name,
			Amount:      p.Total.Neg(),
			Type:        enum.TransactionTypeExpense,
		})
	}

	for _, r := range l.Receivables {
		if !r.IsPaid() {
			continue
		}
		date := now
		if r.PaidDate != nil {
			date = *r.PaidDate
		}
		out = append(out, entity.Transaction{
			ID:          "receivable-" + r.ID,
			Date:        date,
			Description: "Payment received from " + clientName(r.ClientID),
			Amount:      r.Amount,
			Type:        enum.TransactionTypeIncome,
		})
	}

	for _, adj := range l.Adjustments {
		txType := enum.TransactionTypeIncome
		if adj.Type == enum.AdjustmentTypeRemove {
			txType = enum.TransactionTypeExpense
		}
		out = append(out, entity.Transaction{
			ID:          "adj-" + adj.ID,
			Date:        adj.Date,
			Description: adj.Description,
			Amount:      adj.SignedAmount(),
			Type:        txType,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Summarize filters the feed to the window and totals it
func Summarize(transactions []entity.Transaction, window DateRange) CashFlowSummary {
	summary := CashFlowSummary{
		Transactions: make([]entity.Transaction, 0, len(transactions)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range transactions {
		if !window.Contains(t.Date) {
			continue
		}
		summary.Transactions = append(summary.Transactions, t)
		if t.IsIncome() {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount.Abs())
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

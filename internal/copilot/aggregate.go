package copilot

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

const recentTransactionCount = 5

// FinancialContext is the reduced view of a user's records fed to the prompt.
type FinancialContext struct {
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	CategoryBreakdown  map[string]decimal.Decimal
	RecentTransactions []Transaction // most recent by date, at most 5
	RecentMessages     []Message     // chronological order
}

// NetBalance is income minus expenses.
func (f *FinancialContext) NetBalance() decimal.Decimal {
	return f.TotalIncome.Sub(f.TotalExpenses)
}

// Aggregator reduces a user's stored records into a FinancialContext.
type Aggregator struct {
	txs          TransactionSource
	msgs         MessageStore
	historyLimit int
}

// NewAggregator wires the aggregator to its stores. historyLimit bounds the
// number of prior chat turns pulled into the prompt (default 10).
func NewAggregator(txs TransactionSource, msgs MessageStore, historyLimit int) *Aggregator {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Aggregator{txs: txs, msgs: msgs, historyLimit: historyLimit}
}

// Aggregate fetches transactions and chat history concurrently and reduces
// them. Store failures degrade to empty data instead of blocking the
// conversational response; they are logged only.
func (a *Aggregator) Aggregate(ctx context.Context, ownerID uint) *FinancialContext {
	var (
		transactions []Transaction
		history      []Message
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rows, err := a.txs.ListByOwner(ctx, ownerID)
		if err != nil {
			logger.Error().Err(err).Uint("user_id", ownerID).Msg("fetch transactions failed, degrading to empty context")
			return
		}
		transactions = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := a.msgs.RecentByOwner(ctx, ownerID, a.historyLimit)
		if err != nil {
			logger.Error().Err(err).Uint("user_id", ownerID).Msg("fetch chat history failed, degrading to empty transcript")
			return
		}
		history = rows
	}()
	wg.Wait()

	fin := &FinancialContext{
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		CategoryBreakdown: make(map[string]decimal.Decimal),
	}

	for i := range transactions {
		t := &transactions[i]
		switch t.Type {
		case "income":
			fin.TotalIncome = fin.TotalIncome.Add(t.Amount)
		case "expense":
			fin.TotalExpenses = fin.TotalExpenses.Add(t.Amount)
			fin.CategoryBreakdown[t.Category] = fin.CategoryBreakdown[t.Category].Add(t.Amount)
		}
	}

	// the source returns most-recent-first, so the head is the recent slice
	if len(transactions) > recentTransactionCount {
		fin.RecentTransactions = transactions[:recentTransactionCount]
	} else {
		fin.RecentTransactions = transactions
	}

	// history arrives newest-first; reverse into chronological order
	fin.RecentMessages = make([]Message, len(history))
	for i := range history {
		fin.RecentMessages[len(history)-1-i] = history[i]
	}

	return fin
}

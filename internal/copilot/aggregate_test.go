package copilot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionSource struct {
	txs   []Transaction
	err   error
	calls int
}

func (f *fakeTransactionSource) ListByOwner(ctx context.Context, ownerID uint) ([]Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.txs, nil
}

type appendedMessage struct {
	role    string
	content string
}

type fakeMessageStore struct {
	recent    []Message
	recentErr error
	appendErr error
	appended  []appendedMessage
}

func (f *fakeMessageStore) RecentByOwner(ctx context.Context, ownerID uint, limit int) ([]Message, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeMessageStore) Append(ctx context.Context, ownerID uint, role, content string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, appendedMessage{role: role, content: content})
	return nil
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregate_Totals(t *testing.T) {
	txs := &fakeTransactionSource{txs: []Transaction{
		{Type: "expense", Amount: dec("200"), Category: "Food", OccurredAt: day(2)},
		{Type: "income", Amount: dec("1000"), Category: "Salary", OccurredAt: day(1)},
	}}
	a := NewAggregator(txs, &fakeMessageStore{}, 10)

	fin := a.Aggregate(context.Background(), 1)

	assert.True(t, fin.TotalIncome.Equal(dec("1000")), "total income = %s", fin.TotalIncome)
	assert.True(t, fin.TotalExpenses.Equal(dec("200")), "total expenses = %s", fin.TotalExpenses)
	assert.True(t, fin.NetBalance().Equal(dec("800")), "net balance = %s", fin.NetBalance())
}

func TestAggregate_TotalsInvariantUnderReordering(t *testing.T) {
	rows := []Transaction{
		{Type: "income", Amount: dec("100.50"), OccurredAt: day(1)},
		{Type: "expense", Amount: dec("30.25"), Category: "Food", OccurredAt: day(2)},
		{Type: "income", Amount: dec("9.50"), OccurredAt: day(3)},
		{Type: "expense", Amount: dec("0.75"), Category: "Transport", OccurredAt: day(4)},
	}
	reversed := make([]Transaction, len(rows))
	for i := range rows {
		reversed[len(rows)-1-i] = rows[i]
	}

	a1 := NewAggregator(&fakeTransactionSource{txs: rows}, &fakeMessageStore{}, 10)
	a2 := NewAggregator(&fakeTransactionSource{txs: reversed}, &fakeMessageStore{}, 10)

	f1 := a1.Aggregate(context.Background(), 1)
	f2 := a2.Aggregate(context.Background(), 1)

	assert.True(t, f1.TotalIncome.Equal(f2.TotalIncome))
	assert.True(t, f1.TotalExpenses.Equal(f2.TotalExpenses))
}

func TestAggregate_BreakdownCoversExpensesOnly(t *testing.T) {
	txs := &fakeTransactionSource{txs: []Transaction{
		{Type: "income", Amount: dec("500"), Category: "Salary", OccurredAt: day(1)},
		{Type: "expense", Amount: dec("120"), Category: "Food", OccurredAt: day(2)},
		{Type: "expense", Amount: dec("80"), Category: "Food", OccurredAt: day(3)},
		{Type: "expense", Amount: dec("50"), Category: "Transport", OccurredAt: day(4)},
	}}
	a := NewAggregator(txs, &fakeMessageStore{}, 10)

	fin := a.Aggregate(context.Background(), 1)

	require.Len(t, fin.CategoryBreakdown, 2)
	assert.True(t, fin.CategoryBreakdown["Food"].Equal(dec("200")))
	assert.True(t, fin.CategoryBreakdown["Transport"].Equal(dec("50")))
	assert.NotContains(t, fin.CategoryBreakdown, "Salary")

	// breakdown values sum to the expense total
	sum := decimal.Zero
	for _, v := range fin.CategoryBreakdown {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(fin.TotalExpenses))
}

func TestAggregate_RecentTransactionsCappedAtFive(t *testing.T) {
	var rows []Transaction
	for i := 7; i >= 1; i-- { // most recent first, as the store returns them
		rows = append(rows, Transaction{Type: "expense", Amount: dec("1"), Category: "Misc", OccurredAt: day(i)})
	}
	a := NewAggregator(&fakeTransactionSource{txs: rows}, &fakeMessageStore{}, 10)

	fin := a.Aggregate(context.Background(), 1)

	require.Len(t, fin.RecentTransactions, 5)
	for i := 0; i < len(fin.RecentTransactions)-1; i++ {
		assert.False(t, fin.RecentTransactions[i].OccurredAt.Before(fin.RecentTransactions[i+1].OccurredAt),
			"recent transactions must be in descending date order")
	}
	assert.Equal(t, day(7), fin.RecentTransactions[0].OccurredAt)
}

func TestAggregate_MessagesReversedToChronological(t *testing.T) {
	msgs := &fakeMessageStore{recent: []Message{
		{Role: "assistant", Content: "third", CreatedAt: day(3)},
		{Role: "user", Content: "second", CreatedAt: day(2)},
		{Role: "user", Content: "first", CreatedAt: day(1)},
	}}
	a := NewAggregator(&fakeTransactionSource{}, msgs, 10)

	fin := a.Aggregate(context.Background(), 1)

	require.Len(t, fin.RecentMessages, 3)
	assert.Equal(t, "first", fin.RecentMessages[0].Content)
	assert.Equal(t, "second", fin.RecentMessages[1].Content)
	assert.Equal(t, "third", fin.RecentMessages[2].Content)
}

func TestAggregate_DegradesOnTransactionFailure(t *testing.T) {
	txs := &fakeTransactionSource{err: errors.New("db down")}
	msgs := &fakeMessageStore{recent: []Message{{Role: "user", Content: "hi", CreatedAt: day(1)}}}
	a := NewAggregator(txs, msgs, 10)

	fin := a.Aggregate(context.Background(), 1)

	assert.True(t, fin.TotalIncome.IsZero())
	assert.True(t, fin.TotalExpenses.IsZero())
	assert.Empty(t, fin.RecentTransactions)
	// the chat transcript still comes through
	require.Len(t, fin.RecentMessages, 1)
}

func TestAggregate_DegradesOnHistoryFailure(t *testing.T) {
	txs := &fakeTransactionSource{txs: []Transaction{
		{Type: "income", Amount: dec("10"), OccurredAt: day(1)},
	}}
	msgs := &fakeMessageStore{recentErr: errors.New("db down")}
	a := NewAggregator(txs, msgs, 10)

	fin := a.Aggregate(context.Background(), 1)

	assert.Empty(t, fin.RecentMessages)
	assert.True(t, fin.TotalIncome.Equal(dec("10")))
}

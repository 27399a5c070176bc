package copilot

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTranscript(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "how am I doing?"},
		{Role: "assistant", Content: "quite well"},
	}
	assert.Equal(t, "user: how am I doing?\nassistant: quite well", Transcript(msgs))
	assert.Equal(t, "", Transcript(nil))
}

func TestBuildSummaryPrompt(t *testing.T) {
	p := BuildSummaryPrompt("user: hello\nassistant: hi")

	assert.Contains(t, p, "user: hello\nassistant: hi")
	assert.Contains(t, p, "concise summary")
	assert.Contains(t, p, "markdown")
}

func TestBuildChatPrompt_FinancialFigures(t *testing.T) {
	fin := &FinancialContext{
		TotalIncome:   dec("1000"),
		TotalExpenses: dec("200"),
		CategoryBreakdown: map[string]decimal.Decimal{
			"Food": dec("200"),
		},
	}

	p := BuildChatPrompt(fin, "how much did I spend on food?")

	assert.Contains(t, p, "- Total Income: $1000.00")
	assert.Contains(t, p, "- Total Expenses: $200.00")
	assert.Contains(t, p, "- Net Balance: $800.00")
	assert.Contains(t, p, "- Food: $200.00")
	assert.Contains(t, p, "User Message:\nhow much did I spend on food?")
	assert.Contains(t, p, "Instructions:")
}

func TestBuildChatPrompt_CategoryOrderIsStable(t *testing.T) {
	fin := &FinancialContext{
		CategoryBreakdown: map[string]decimal.Decimal{
			"Transport": dec("50"),
			"Food":      dec("200"),
			"Rent":      dec("900"),
		},
	}

	p := BuildChatPrompt(fin, "hi")

	food := strings.Index(p, "- Food:")
	rent := strings.Index(p, "- Rent:")
	transport := strings.Index(p, "- Transport:")
	assert.True(t, food < rent && rent < transport, "categories must render alphabetically")
}

func TestBuildChatPrompt_OmitsEmptySections(t *testing.T) {
	p := BuildChatPrompt(&FinancialContext{}, "hi")

	assert.NotContains(t, p, "Expenses by Category:")
	assert.NotContains(t, p, "Recent Transactions:")
	assert.NotContains(t, p, "Recent Conversation:")
	assert.Contains(t, p, "- Total Income: $0.00")
}

func TestBuildChatPrompt_TranscriptAndRecents(t *testing.T) {
	fin := &FinancialContext{
		RecentTransactions: []Transaction{
			{Type: "expense", Amount: dec("42.50"), Category: "Food", Description: "groceries", OccurredAt: day(5)},
		},
		RecentMessages: []Message{
			{Role: "user", Content: "hello"},
		},
	}

	p := BuildChatPrompt(fin, "hi")

	assert.Contains(t, p, "- 2024-01-05 expense $42.50 (Food) groceries")
	assert.Contains(t, p, "Recent Conversation:\nuser: hello")
}

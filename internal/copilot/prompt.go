package copilot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SystemPrompt is the fixed system role message for every completion.
const SystemPrompt = "You are a helpful financial assistant."

// Transcript renders turns as "{role}: {content}" lines, newline separated.
func Transcript(msgs []Message) string {
	lines := make([]string, 0, len(msgs))
	for i := range msgs {
		lines = append(lines, msgs[i].Role+": "+msgs[i].Content)
	}
	return strings.Join(lines, "\n")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// BuildSummaryPrompt asks for a structured markdown summary of a supplied
// transcript. No aggregation is performed in this mode.
func BuildSummaryPrompt(transcript string) string {
	var b strings.Builder

	b.WriteString("You are a financial assistant helping to summarize a conversation.\n")
	b.WriteString("Here is the conversation history:\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	b.WriteString("Please provide a concise summary of the key points discussed, focusing on:\n")
	b.WriteString("1. Main financial topics covered\n")
	b.WriteString("2. Important advice or recommendations given\n")
	b.WriteString("3. Any action items or next steps mentioned\n\n")
	b.WriteString("Format your response using markdown:\n")
	b.WriteString("- Use # for main headings\n")
	b.WriteString("- Use ## for subheadings\n")
	b.WriteString("- Use bullet points (-) for lists\n")
	b.WriteString("- Use paragraphs for detailed explanations\n")
	b.WriteString("- Use **bold** for emphasis on important points\n\n")
	b.WriteString("Make sure to include line breaks between sections for better readability.\n")

	return b.String()
}

// BuildChatPrompt embeds the aggregated financial context, the recent
// conversation and the new user message, followed by formatting and
// grounding instructions.
func BuildChatPrompt(fin *FinancialContext, message string) string {
	var b strings.Builder

	b.WriteString("Financial Overview:\n")
	fmt.Fprintf(&b, "- Total Income: %s\n", money(fin.TotalIncome))
	fmt.Fprintf(&b, "- Total Expenses: %s\n", money(fin.TotalExpenses))
	fmt.Fprintf(&b, "- Net Balance: %s\n", money(fin.NetBalance()))

	if len(fin.CategoryBreakdown) > 0 {
		b.WriteString("\nExpenses by Category:\n")
		for _, cat := range sortedCategories(fin.CategoryBreakdown) {
			fmt.Fprintf(&b, "- %s: %s\n", cat, money(fin.CategoryBreakdown[cat]))
		}
	}

	if len(fin.RecentTransactions) > 0 {
		b.WriteString("\nRecent Transactions:\n")
		for i := range fin.RecentTransactions {
			t := &fin.RecentTransactions[i]
			fmt.Fprintf(&b, "- %s %s %s (%s)", t.OccurredAt.Format("2006-01-02"), t.Type, money(t.Amount), t.Category)
			if t.Description != "" {
				b.WriteString(" " + t.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(fin.RecentMessages) > 0 {
		b.WriteString("\nRecent Conversation:\n")
		b.WriteString(Transcript(fin.RecentMessages))
		b.WriteString("\n")
	}

	b.WriteString("\nUser Message:\n")
	b.WriteString(message)
	b.WriteString("\n\n")

	b.WriteString("Instructions:\n")
	b.WriteString("- Start with a short # heading\n")
	b.WriteString("- Follow with bullet points (-) listing the key insights\n")
	b.WriteString("- Explain your reasoning in short paragraphs\n")
	b.WriteString("- End with concrete action items\n")
	b.WriteString("- Use **bold** for emphasis on important points\n")
	b.WriteString("- Ground every recommendation in the financial data above, citing the actual figures\n")
	b.WriteString("Format the whole response using markdown with line breaks between sections.\n")

	return b.String()
}

// sortedCategories keeps breakdown rendering stable across runs.
func sortedCategories(m map[string]decimal.Decimal) []string {
	cats := make([]string, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

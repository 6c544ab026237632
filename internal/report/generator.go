package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/recurpay/internal/common"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/recurerror"
)

// Generator renders a Summary in one of the supported output formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a generator. A nil logger falls back to the
// package default.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Generator{logger: logger}
}

// Render produces the summary in the requested format. Supported
// formats are "json", "csv" and "text".
func (g *Generator) Render(summary Summary, format string) ([]byte, error) {
	switch format {
	case "json":
		return g.renderJSON(summary)
	case "csv":
		return g.renderCSV(summary)
	case "text":
		return g.renderText(summary), nil
	default:
		return nil, &recurerror.ValidationError{
			Subject: "report format",
			Reason:  fmt.Sprintf("unsupported format %q, expected json, csv or text", format),
		}
	}
}

func (g *Generator) renderJSON(summary Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal report to JSON")
		return nil, fmt.Errorf("error marshalling report JSON: %w", err)
	}
	return out, nil
}

// csvEntry flattens an Entry for CSV output. Dates and amounts are
// preformatted so the file matches what the text report shows.
type csvEntry struct {
	Due       string `csv:"Due"`
	Payment   string `csv:"Payment"`
	Merchant  string `csv:"Merchant"`
	Category  string `csv:"Category"`
	Amount    string `csv:"Amount"`
	Frequency string `csv:"Frequency"`
	Status    string `csv:"Status"`
	DaysUntil int    `csv:"DaysUntilDue"`
}

func (g *Generator) renderCSV(summary Summary) ([]byte, error) {
	rows := make([]csvEntry, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		rows = append(rows, csvEntry{
			Due:       e.NextDueDate.Format("2006-01-02"),
			Payment:   e.DisplayName,
			Merchant:  e.MerchantPattern,
			Category:  e.CategoryID,
			Amount:    e.Amount.StringFixed(2),
			Frequency: string(e.Frequency),
			Status:    entryStatus(e),
			DaysUntil: e.DaysUntilDue,
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = common.Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal report rows to CSV")
		return nil, fmt.Errorf("error writing report CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) renderText(summary Summary) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Recurring payments for user %s (generated %s)\n",
		summary.UserID, summary.GeneratedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("%d active, %d overdue\n",
		summary.ActiveCount, summary.OverdueCount))
	sb.WriteString(fmt.Sprintf("Due within %d days: %s\n",
		summary.HorizonDays, summary.DueWithinHorizon.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Estimated monthly outflow: %s\n",
		summary.MonthlyOutflow.StringFixed(2)))

	if len(summary.Entries) == 0 {
		sb.WriteString("\nNo recurring payments.\n")
		return []byte(sb.String())
	}

	sb.WriteString(fmt.Sprintf("\n%-12s %-24s %10s  %-10s %-9s %s\n",
		"DUE", "PAYMENT", "AMOUNT", "FREQUENCY", "STATUS", "DAYS"))
	for _, e := range summary.Entries {
		name := e.DisplayName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-12s %-24s %10s  %-10s %-9s %d\n",
			e.NextDueDate.Format("2006-01-02"),
			name,
			e.Amount.Abs().StringFixed(2),
			e.Frequency,
			entryStatus(e),
			e.DaysUntilDue))
	}
	return []byte(sb.String())
}

// entryStatus is what the CSV and text reports print in the status
// column. The stored status is meaningless once a payment is cancelled.
func entryStatus(e Entry) string {
	if !e.Active {
		return "cancelled"
	}
	return string(e.Status)
}

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"fjacquet/recurpay/internal/common"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/recurerror"
)

// RenderCandidates produces a detection result in the requested format.
// Supported formats are "json", "csv" and "text".
func (g *Generator) RenderCandidates(candidates []models.TransactionPattern, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal candidates to JSON")
			return nil, fmt.Errorf("error marshalling candidate JSON: %w", err)
		}
		return out, nil
	case "csv":
		return g.renderCandidatesCSV(candidates)
	case "text":
		return g.renderCandidatesText(candidates), nil
	default:
		return nil, &recurerror.ValidationError{
			Subject: "report format",
			Reason:  fmt.Sprintf("unsupported format %q, expected json, csv or text", format),
		}
	}
}

// csvCandidate flattens a TransactionPattern for CSV output.
type csvCandidate struct {
	Merchant     string `csv:"Merchant"`
	Amount       string `csv:"Amount"`
	Frequency    string `csv:"Frequency"`
	Occurrences  int    `csv:"Occurrences"`
	Confidence   string `csv:"Confidence"`
	Risk         string `csv:"Risk"`
	NextExpected string `csv:"NextExpected"`
	Category     string `csv:"Category"`
}

func (g *Generator) renderCandidatesCSV(candidates []models.TransactionPattern) ([]byte, error) {
	rows := make([]csvCandidate, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, csvCandidate{
			Merchant:     c.MerchantPattern,
			Amount:       c.AverageAmount.StringFixed(2),
			Frequency:    string(c.Frequency),
			Occurrences:  c.Occurrences(),
			Confidence:   fmt.Sprintf("%.2f", c.Confidence),
			Risk:         fmt.Sprintf("%.2f", c.Risk),
			NextExpected: c.NextExpectedDate.Format("2006-01-02"),
			Category:     c.CategoryID,
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = common.Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal candidate rows to CSV")
		return nil, fmt.Errorf("error writing candidate CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) renderCandidatesText(candidates []models.TransactionPattern) []byte {
	var sb strings.Builder

	if len(candidates) == 0 {
		sb.WriteString("No recurring payment candidates found.\n")
		return []byte(sb.String())
	}

	sb.WriteString(fmt.Sprintf("%d recurring payment candidate(s)\n\n", len(candidates)))
	sb.WriteString(fmt.Sprintf("%3s  %-24s %10s  %-10s %4s  %10s %5s  %s\n",
		"#", "MERCHANT", "AMOUNT", "FREQUENCY", "SEEN", "CONFIDENCE", "RISK", "NEXT EXPECTED"))
	for i, c := range candidates {
		merchant := c.MerchantPattern
		if len(merchant) > 24 {
			merchant = merchant[:21] + "..."
		}
		// The row number is what confirm --index expects.
		sb.WriteString(fmt.Sprintf("%3d  %-24s %10s  %-10s %4d  %10.2f %5.2f  %s\n",
			i+1,
			merchant,
			c.AverageAmount.Abs().StringFixed(2),
			c.Frequency,
			c.Occurrences(),
			c.Confidence,
			c.Risk,
			c.NextExpectedDate.Format("2006-01-02")))
	}
	return []byte(sb.String())
}

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

// RenderAlerts produces a pending-alert listing in the requested format.
// Supported formats are "json", "csv" and "text".
func (g *Generator) RenderAlerts(alerts []models.Alert, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(alerts, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal alerts to JSON")
			return nil, fmt.Errorf("error marshalling alert JSON: %w", err)
		}
		return out, nil
	case "csv":
		return g.renderAlertsCSV(alerts)
	case "text":
		return g.renderAlertsText(alerts), nil
	default:
		return nil, &recurerror.ValidationError{
			Subject: "report format",
			Reason:  fmt.Sprintf("unsupported format %q, expected json, csv or text", format),
		}
	}
}

// csvAlert flattens an Alert for CSV output.
type csvAlert struct {
	Due      string `csv:"Due"`
	Type     string `csv:"Type"`
	Priority string `csv:"Priority"`
	Payment  string `csv:"Payment"`
	Amount   string `csv:"Amount"`
	Message  string `csv:"Message"`
}

func (g *Generator) renderAlertsCSV(alerts []models.Alert) ([]byte, error) {
	rows := make([]csvAlert, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, csvAlert{
			Due:      a.DueDate.Format("2006-01-02"),
			Type:     string(a.Type),
			Priority: string(a.Priority),
			Payment:  a.DisplayName,
			Amount:   a.Amount.StringFixed(2),
			Message:  a.Message,
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = common.Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal alert rows to CSV")
		return nil, fmt.Errorf("error writing alert CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) renderAlertsText(alerts []models.Alert) []byte {
	var sb strings.Builder

	if len(alerts) == 0 {
		sb.WriteString("No pending alerts.\n")
		return []byte(sb.String())
	}

	sb.WriteString(fmt.Sprintf("%d pending alert(s)\n\n", len(alerts)))
	sb.WriteString(fmt.Sprintf("%-12s %-8s %-9s %s\n", "DUE", "PRIORITY", "TYPE", "MESSAGE"))
	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("%-12s %-8s %-9s %s\n",
			a.DueDate.Format("2006-01-02"),
			a.Priority,
			a.Type,
			a.Message))
	}
	return []byte(sb.String())
}

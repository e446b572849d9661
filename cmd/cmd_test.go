package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/internal/config"
	"invoicing/pkg/models"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), "invoicing %s", strings.Join(args, " "))
	return out.String()
}

func TestInvoicingWorkflow(t *testing.T) {
	appConfig = &config.Config{
		DataDir:            t.TempDir(),
		MaxConcurrentReads: 4,
	}
	t.Cleanup(func() { appConfig = nil })

	clientID := strings.TrimSpace(run(t, "client", "add", "--name", "ACME", "--tax-id", "5250001234"))
	require.NotEmpty(t, clientID)

	created := strings.Fields(run(t, "invoice", "new", "--client", clientID, "--date", "2025-03-14"))
	require.Len(t, created, 2)
	invoiceID, number := created[0], created[1]
	// Numbers follow the period the invoice is issued in, not --date.
	assert.True(t, strings.HasPrefix(number, "FV/001/"), number)

	run(t, "invoice", "add-item", invoiceID, "--description", "Consulting", "--quantity", "2", "--price", "100.50")
	paid := run(t, "invoice", "pay", invoiceID, "--amount", "47.23", "--date", "2025-03-20")
	assert.Contains(t, paid, "PartiallyPaid")
	assert.Contains(t, paid, "remaining 200.00")

	var inv models.Invoice
	require.NoError(t, json.Unmarshal([]byte(run(t, "invoice", "show", invoiceID)), &inv))
	assert.True(t, decimal.RequireFromString("247.23").Equal(inv.TotalGross))
	require.NotNil(t, inv.Client)
	assert.Equal(t, "ACME", inv.Client.Name)

	var summary models.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(run(t, "report", "--from", "2025-03-01", "--to", "2025-03-31", "--json")), &summary))
	assert.Equal(t, 1, summary.TotalInvoices)
	assert.Equal(t, 1, summary.UnpaidInvoices)
	require.Len(t, summary.ClientBreakdown, 1)
	assert.Equal(t, "ACME", summary.ClientBreakdown[0].ClientName)

	future := strings.Fields(run(t, "invoice", "new", "--client", clientID, "--date", "2099-01-15"))
	require.Len(t, future, 2)
	listed := run(t, "invoice", "list", "--from", "2025-01-01")
	assert.Contains(t, listed, number)
	assert.Contains(t, listed, "2099-01-15")

	settingsOut := run(t, "settings", "set", "--prefix", "INV", "--retention-days", "90")
	assert.Contains(t, settingsOut, `"invoice_prefix": "INV"`)
}

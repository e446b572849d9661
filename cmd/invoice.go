package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"invoicing/internal/invoice"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Issue and manage invoices",
	Long: `Issue invoices, edit their line items, record payments and list them.

Invoice numbers are generated per period as PREFIX/NNN/MM/YYYY, or
PREFIX/NNN/YYYY when numbering resets yearly. Totals and payment status are
recomputed on every save.`,
}

var invoiceNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an invoice with the next number",
	Example: `  invoicing invoice new --client 3f6c... --notes "Consulting, March"`,
	Args: cobra.NoArgs,
	RunE: runInvoiceNew,
}

var invoiceAddItemCmd = &cobra.Command{
	Use:   "add-item [invoice-id]",
	Short: "Add a line item to an invoice",
	Example: `  # 10 hours at 150.00 net, default VAT rate
  invoicing invoice add-item 9b1e... --description "Consulting" --quantity 10 --price 150

  # Reduced rate
  invoicing invoice add-item 9b1e... --description "Books" --price 49.99 --vat 5%`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceAddItem,
}

var invoiceRemoveItemCmd = &cobra.Command{
	Use:   "remove-item [invoice-id] [item-id]",
	Short: "Remove a line item from an invoice",
	Args:  cobra.ExactArgs(2),
	RunE:  runInvoiceRemoveItem,
}

var invoicePayCmd = &cobra.Command{
	Use:   "pay [invoice-id]",
	Short: "Record a payment against an invoice",
	Example: `  invoicing invoice pay 9b1e... --amount 1845.00 --date 2025-04-02`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoicePay,
}

var invoiceRemovePaymentCmd = &cobra.Command{
	Use:   "remove-payment [invoice-id] [payment-id]",
	Short: "Remove a recorded payment",
	Args:  cobra.ExactArgs(2),
	RunE:  runInvoiceRemovePayment,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	Example: `  # Everything
  invoicing invoice list

  # Unpaid invoices of one client
  invoicing invoice list --client 3f6c... --unpaid

  # First quarter
  invoicing invoice list --from 2025-01-01 --to 2025-03-31`,
	Args: cobra.NoArgs,
	RunE: runInvoiceList,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show [invoice-id]",
	Short: "Show an invoice as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShow,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete [invoice-id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceDelete,
}

var invoiceNextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Print the number the next invoice would get",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceNextNumber,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(
		invoiceNewCmd,
		invoiceAddItemCmd,
		invoiceRemoveItemCmd,
		invoicePayCmd,
		invoiceRemovePaymentCmd,
		invoiceListCmd,
		invoiceShowCmd,
		invoiceDeleteCmd,
		invoiceNextNumberCmd,
	)

	invoiceNewCmd.Flags().String("client", "", "Client id (required)")
	invoiceNewCmd.Flags().String("date", "", "Invoice and selling date (format: YYYY-MM-DD, default: today)")
	invoiceNewCmd.Flags().String("due", "", "Due date (format: YYYY-MM-DD, default: date + payment days)")
	invoiceNewCmd.Flags().String("notes", "", "Free-text notes")
	_ = invoiceNewCmd.MarkFlagRequired("client")

	invoiceAddItemCmd.Flags().String("description", "", "Item description (required)")
	invoiceAddItemCmd.Flags().String("quantity", "1", "Quantity")
	invoiceAddItemCmd.Flags().String("price", "", "Net unit price (required)")
	invoiceAddItemCmd.Flags().String("vat", "", "VAT rate, e.g. 23% (default: configured default rate)")
	_ = invoiceAddItemCmd.MarkFlagRequired("description")
	_ = invoiceAddItemCmd.MarkFlagRequired("price")

	invoicePayCmd.Flags().String("amount", "", "Paid amount (required)")
	invoicePayCmd.Flags().String("date", "", "Payment date (format: YYYY-MM-DD, default: today)")
	invoicePayCmd.Flags().String("method", "", "Payment method (default: the invoice's method)")
	invoicePayCmd.Flags().String("notes", "", "Free-text notes")
	_ = invoicePayCmd.MarkFlagRequired("amount")

	invoiceListCmd.Flags().String("client", "", "Only invoices of this client id")
	invoiceListCmd.Flags().String("from", "", "Only invoices dated on or after (format: YYYY-MM-DD)")
	invoiceListCmd.Flags().String("to", "", "Only invoices dated on or before (format: YYYY-MM-DD)")
	invoiceListCmd.Flags().Bool("unpaid", false, "Only invoices that are not fully paid")
}

func runInvoiceNew(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoice")
	ctx := cmd.Context()

	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	clientID, _ := cmd.Flags().GetString("client")
	dateStr, _ := cmd.Flags().GetString("date")
	dueStr, _ := cmd.Flags().GetString("due")
	notes, _ := cmd.Flags().GetString("notes")

	if _, found, err := a.clients.Get(ctx, clientID); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("client %s not found", clientID)
	}

	inv, err := a.invoices.NewInvoice(ctx, clientID)
	if err != nil {
		return err
	}
	inv.Notes = notes

	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}
	if date != nil {
		paymentTerm := inv.DueDate.Sub(inv.InvoiceDate)
		inv.InvoiceDate = *date
		inv.SellingDate = *date
		inv.DueDate = date.Add(paymentTerm)
	}

	due, err := parseDate(dueStr)
	if err != nil {
		return err
	}
	if due != nil {
		inv.DueDate = *due
	}

	if err := a.invoices.Save(ctx, inv); err != nil {
		return err
	}

	log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.InvoiceNumber).
		Str("client_id", clientID).
		Msg("Invoice created")

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", inv.ID, inv.InvoiceNumber)
	return nil
}

// loadInvoice fetches an invoice or fails with invoice.ErrInvoiceNotFound.
func loadInvoice(cmd *cobra.Command, a *app, id string) (*models.Invoice, error) {
	inv, found, err := a.invoices.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &invoice.InvoiceError{Op: "Get", InvoiceID: id, Err: invoice.ErrInvoiceNotFound}
	}
	return inv, nil
}

func runInvoiceAddItem(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	inv, err := loadInvoice(cmd, a, args[0])
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	quantityStr, _ := cmd.Flags().GetString("quantity")
	priceStr, _ := cmd.Flags().GetString("price")
	vat, _ := cmd.Flags().GetString("vat")

	quantity, err := parseAmount("quantity", quantityStr)
	if err != nil {
		return err
	}
	price, err := parseAmount("price", priceStr)
	if err != nil {
		return err
	}

	item, err := a.invoices.AddItem(cmd.Context(), inv, models.InvoiceItem{
		Description: description,
		Quantity:    quantity,
		NetPrice:    price,
		VatRate:     vat,
	})
	if err != nil {
		return err
	}
	itemID := item.ID

	if err := a.invoices.Save(cmd.Context(), inv); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\tnet %s\tvat %s\tgross %s\n",
		itemID, inv.TotalNet.StringFixed(2), inv.TotalVat.StringFixed(2), inv.TotalGross.StringFixed(2))
	return nil
}

func runInvoiceRemoveItem(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	inv, err := loadInvoice(cmd, a, args[0])
	if err != nil {
		return err
	}
	if err := a.invoices.RemoveItem(inv, args[1]); err != nil {
		return err
	}
	return a.invoices.Save(cmd.Context(), inv)
}

func runInvoicePay(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	inv, err := loadInvoice(cmd, a, args[0])
	if err != nil {
		return err
	}

	amountStr, _ := cmd.Flags().GetString("amount")
	dateStr, _ := cmd.Flags().GetString("date")
	method, _ := cmd.Flags().GetString("method")
	notes, _ := cmd.Flags().GetString("notes")

	amount, err := parseAmount("amount", amountStr)
	if err != nil {
		return err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	payment := models.Payment{Amount: amount, Method: method, Notes: notes}
	if date != nil {
		payment.Date = *date
	}

	if _, err := a.invoices.AddPayment(inv, payment); err != nil {
		return err
	}
	if err := a.invoices.Save(cmd.Context(), inv); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tremaining %s\n",
		inv.InvoiceNumber, inv.PaymentStatus, inv.RemainingAmount().StringFixed(2))
	return nil
}

func runInvoiceRemovePayment(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	inv, err := loadInvoice(cmd, a, args[0])
	if err != nil {
		return err
	}
	if err := a.invoices.RemovePayment(inv, args[1]); err != nil {
		return err
	}
	return a.invoices.Save(cmd.Context(), inv)
}

func runInvoiceList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	clientID, _ := cmd.Flags().GetString("client")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	unpaidOnly, _ := cmd.Flags().GetBool("unpaid")

	from, err := parseDate(fromStr)
	if err != nil {
		return err
	}
	to, err := parseEndDate(toStr)
	if err != nil {
		return err
	}

	var invoices []*models.Invoice
	switch {
	case from != nil || to != nil:
		start, end := dateRange(from, to)
		invoices, err = a.invoices.ListByDateRange(ctx, start, end)
	case unpaidOnly:
		invoices, err = a.invoices.ListUnpaid(ctx)
	default:
		invoices, err = a.invoices.ListWithClients(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list invoices: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tDATE\tDUE\tCLIENT\tGROSS\tPAID\tSTATUS\tID")
	for _, inv := range invoices {
		if clientID != "" && inv.ClientID != clientID {
			continue
		}
		if unpaidOnly && inv.IsPaid() {
			continue
		}
		clientName := inv.ClientID
		if inv.Client != nil {
			clientName = inv.Client.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\t%s\t%s\t%s\n",
			inv.InvoiceNumber,
			inv.InvoiceDate.Format(dateLayout),
			inv.DueDate.Format(dateLayout),
			clientName,
			inv.TotalGross.StringFixed(2), inv.Currency,
			inv.PaidAmount().StringFixed(2),
			inv.PaymentStatus,
			inv.ID,
		)
	}
	return w.Flush()
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	inv, found, err := a.invoices.GetWithClient(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !found {
		return &invoice.InvoiceError{Op: "Get", InvoiceID: args[0], Err: invoice.ErrInvoiceNotFound}
	}
	return writeJSON(cmd.OutOrStdout(), inv)
}

func runInvoiceDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}
	return a.invoices.Delete(cmd.Context(), args[0])
}

func runInvoiceNextNumber(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	number, err := a.invoices.NextNumber(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), number)
	return nil
}

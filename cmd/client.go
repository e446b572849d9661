package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
	Long:  `Create, list, search, inspect and delete the clients invoices are issued to.`,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Example: `  # All clients
  invoicing client list

  # Only active clients matching a name or tax id
  invoicing client list --active --search acme`,
	Args: cobra.NoArgs,
	RunE: runClientList,
}

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a client",
	Example: `  invoicing client add --name "ACME Sp. z o.o." --tax-id 5250000000 --email billing@acme.example`,
	Args: cobra.NoArgs,
	RunE: runClientAdd,
}

var clientShowCmd = &cobra.Command{
	Use:   "show [client-id]",
	Short: "Show a client with its invoices",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientShow,
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete [client-id]",
	Short: "Delete a client",
	Long: `Delete a client. Invoices issued to the client are kept but no longer
resolve a client and are left out of report breakdowns.`,
	Args: cobra.ExactArgs(1),
	RunE: runClientDelete,
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientListCmd, clientAddCmd, clientShowCmd, clientDeleteCmd)

	clientListCmd.Flags().Bool("active", false, "Only list active clients")
	clientListCmd.Flags().String("search", "", "Filter by name or tax id (case-insensitive)")

	clientAddCmd.Flags().String("name", "", "Client name (required)")
	clientAddCmd.Flags().String("tax-id", "", "Tax identification number")
	clientAddCmd.Flags().String("address", "", "Postal address")
	clientAddCmd.Flags().String("contact", "", "Contact person")
	clientAddCmd.Flags().String("email", "", "E-mail address")
	clientAddCmd.Flags().String("phone", "", "Phone number")
	clientAddCmd.Flags().Bool("inactive", false, "Create the client as inactive")
	_ = clientAddCmd.MarkFlagRequired("name")
}

func runClientList(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	activeOnly, _ := cmd.Flags().GetBool("active")
	search, _ := cmd.Flags().GetString("search")

	var clients []*models.Client
	if search != "" {
		clients, err = a.clients.Search(cmd.Context(), search)
	} else if activeOnly {
		clients, err = a.clients.ListActive(cmd.Context())
	} else {
		clients, err = a.clients.List(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAX ID\tACTIVE")
	for _, c := range clients {
		if search != "" && activeOnly && !c.IsActive {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.TaxID, c.IsActive)
	}
	return w.Flush()
}

func runClientAdd(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("client")

	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	inactive, _ := cmd.Flags().GetBool("inactive")

	c := models.NewClient(name)
	c.TaxID, _ = cmd.Flags().GetString("tax-id")
	c.Address, _ = cmd.Flags().GetString("address")
	c.ContactPerson, _ = cmd.Flags().GetString("contact")
	c.Email, _ = cmd.Flags().GetString("email")
	c.Phone, _ = cmd.Flags().GetString("phone")
	c.IsActive = !inactive

	if err := a.clients.Save(cmd.Context(), c); err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to create client")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), c.ID)
	return nil
}

// clientView is the JSON shape of "client show"; Invoices is not persisted on
// the model and therefore not serialised with it.
type clientView struct {
	*models.Client
	Invoices []*models.Invoice `json:"invoices"`
}

func runClientShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	c, err := a.clients.GetWithInvoices(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), clientView{Client: c, Invoices: c.Invoices})
}

func runClientDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}
	return a.clients.Delete(cmd.Context(), args[0])
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erlove000/business-services/internal/database"
	"github.com/erlove000/business-services/internal/lib/utils"
	"github.com/erlove000/business-services/internal/model"
	"github.com/erlove000/business-services/internal/repository"
	"github.com/erlove000/business-services/internal/server"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the collection schema to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.loggerService.Shutdown()
			return database.Migrate(cmd.Context(), &a.logger, a.cfg)
		},
	}
}

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServer(func(srv *server.Server) error {
				report := srv.Health(cmd.Context())
				if err := utils.PrintJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
				if !report.Healthy() {
					return errors.New("service unhealthy")
				}
				return nil
			})
		},
	}
}

func newSaveCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Store a payment read as JSON from a file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payment, err := readPayment(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			return a.withRepositories(func(repos *repository.Repositories) error {
				if err := repos.Payments.Save(cmd.Context(), payment); err != nil {
					return err
				}
				return utils.PrintJSON(cmd.OutOrStdout(), map[string]string{"id": payment.ID})
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Payment JSON file, - for stdin")

	return cmd
}

func readPayment(stdin io.Reader, file string) (*model.Payment, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var payment model.Payment
	if err := json.NewDecoder(r).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decoding payment: %w", err)
	}
	return &payment, nil
}

func newSearchCommand(a *app) *cobra.Command {
	var (
		criteria model.SearchCriteria
		fromDate int64
		toDate   int64
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search payments and print them as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("from") {
				criteria.FromDate = &fromDate
			}
			if cmd.Flags().Changed("to") {
				criteria.ToDate = &toDate
			}

			return a.withRepositories(func(repos *repository.Repositories) error {
				search := repos.Payments.Search
				if plain {
					search = repos.Payments.SearchPlain
				}

				payments, err := search(cmd.Context(), criteria)
				if err != nil {
					return err
				}
				return utils.PrintJSON(cmd.OutOrStdout(), payments)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&criteria.TenantID, "tenant", "", "Tenant id; a city-level tenant matches exactly, a state-level one by prefix")
	flags.StringSliceVar(&criteria.IDs, "id", nil, "Payment ids")
	flags.StringSliceVar(&criteria.ReceiptNumbers, "receipt", nil, "Receipt numbers")
	flags.StringSliceVar(&criteria.Status, "status", nil, "Payment statuses")
	flags.StringSliceVar(&criteria.InstrumentStatus, "instrument-status", nil, "Instrument statuses")
	flags.StringSliceVar(&criteria.PaymentModes, "payment-mode", nil, "Payment modes")
	flags.StringVar(&criteria.MobileNumber, "mobile", "", "Payer mobile number")
	flags.StringVar(&criteria.TransactionNumber, "transaction", "", "Transaction number")
	flags.Int64Var(&fromDate, "from", 0, "Earliest transaction date, epoch milliseconds")
	flags.Int64Var(&toDate, "to", 0, "Latest transaction day, epoch milliseconds; the whole day is included")
	flags.StringSliceVar(&criteria.PayerIDs, "payer", nil, "Payer ids")
	flags.StringSliceVar(&criteria.BusinessServices, "business-service", nil, "Business services")
	flags.StringSliceVar(&criteria.ConsumerCodes, "consumer-code", nil, "Consumer codes")
	flags.StringSliceVar(&criteria.BillIDs, "bill", nil, "Bill ids")
	flags.IntVar(&criteria.Offset, "offset", 0, "Number of payments to skip")
	flags.IntVar(&criteria.Limit, "limit", 0, "Number of payments to return; 0 uses the configured default")
	flags.BoolVar(&plain, "plain", false, "Use the single-query search")

	return cmd
}

// lookupCommand describes one auxiliary lookup exposed on the CLI.
type lookupCommand struct {
	use   string
	short string
	run   func(repos *repository.Repositories, cmd *cobra.Command, key string) []string
}

var lookupCommands = []lookupCommand{
	{
		use:   "property <consumer-code>",
		short: "Old connection number, land area and usage category of a water connection",
		run: func(repos *repository.Repositories, cmd *cobra.Command, key string) []string {
			return repos.Payments.PropertyDetail(cmd.Context(), key)
		},
	},
	{
		use:   "usage-category <application-number>",
		short: "Property usage category of a water or sewerage application",
		run: func(repos *repository.Repositories, cmd *cobra.Command, key string) []string {
			return repos.Payments.UsageCategoryByApplicationNumber(cmd.Context(), key)
		},
	},
	{
		use:   "address <application-number>",
		short: "Property address of a water or sewerage application",
		run: func(repos *repository.Repositories, cmd *cobra.Command, key string) []string {
			return repos.Payments.AddressByApplicationNumber(cmd.Context(), key)
		},
	},
	{
		use:   "consumer-code <receipt-number>",
		short: "Consumer code of the bill paid under a receipt",
		run: func(repos *repository.Repositories, cmd *cobra.Command, key string) []string {
			return repos.Payments.ConsumerCodeByReceiptNumber(cmd.Context(), key)
		},
	},
}

func newLookupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Auxiliary lookups against connection and property records",
	}

	for _, lc := range lookupCommands {
		cmd.AddCommand(&cobra.Command{
			Use:   lc.use,
			Short: lc.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withRepositories(func(repos *repository.Repositories) error {
					return utils.PrintJSON(cmd.OutOrStdout(), lc.run(repos, cmd, args[0]))
				})
			},
		})
	}

	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quickcodehq/quickcode/internal/auth"
	"github.com/quickcodehq/quickcode/internal/config"
	"github.com/quickcodehq/quickcode/internal/infra/sheets"
	"github.com/quickcodehq/quickcode/internal/infra/workbook"
	"github.com/quickcodehq/quickcode/internal/ledger"
	"github.com/quickcodehq/quickcode/internal/logger"
)

var (
	configPath   string
	workbookFile string

	splitParent    string
	splitAmounts   []string
	splitNotes     []string
	splitJobIDs    []string
	splitCommit    bool
	splitAssignIDs bool

	listUser string
)

func main() {
	root := &cobra.Command{
		Use:   "quickcode",
		Short: "Expense-coding workflow against the transaction ledger",
		Long: `quickcode operates the expense-coding workflow from the command line:
preview and commit transaction splits, list a purchaser's uncoded
transactions, and dump the coding lookup tables.

The ledger is a Google spreadsheet by default; pass --workbook to work
against a local .xlsx file instead.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("QUICKCODE_CONFIG"), "path to YAML config file")
	root.PersistentFlags().StringVar(&workbookFile, "workbook", "", "local .xlsx ledger file instead of the spreadsheet")

	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Preview or commit a transaction split",
		RunE:  runSplit,
	}
	splitCmd.Flags().StringVar(&splitParent, "parent", "", "parent transaction ID (required)")
	splitCmd.Flags().StringSliceVar(&splitAmounts, "amount", nil, "split line amount, repeatable (required)")
	splitCmd.Flags().StringSliceVar(&splitNotes, "notes", nil, "split line notes, positional with --amount")
	splitCmd.Flags().StringSliceVar(&splitJobIDs, "job", nil, "split line job ID, positional with --amount")
	splitCmd.Flags().BoolVar(&splitCommit, "commit", false, "write the split instead of previewing it")
	splitCmd.Flags().BoolVar(&splitAssignIDs, "assign-ids", false, "assign sequential IDs to the children on commit")
	splitCmd.MarkFlagRequired("parent")
	splitCmd.MarkFlagRequired("amount")

	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "List a purchaser's uncoded (New) transactions",
		RunE:  runTransactions,
	}
	transactionsCmd.Flags().StringVar(&listUser, "user", "", "purchaser username (required)")
	transactionsCmd.MarkFlagRequired("user")

	lookupsCmd := &cobra.Command{
		Use:   "lookups",
		Short: "Dump job, cost-code, GL-account and user lookup tables",
		RunE:  runLookups,
	}

	root.AddCommand(splitCmd, transactionsCmd, lookupsCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService wires a ledger service against the configured store.
func newService(ctx context.Context) (*ledger.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil && workbookFile != "" {
		// A workbook run needs no spreadsheet configuration at all.
		cfg = &config.Config{Tabs: config.Tabs{
			Log:        "Credit Card - Log",
			JobMaster:  "Feed - Job Master",
			CostCodes:  "Lookup - Cost Codes",
			GLAccounts: "Lookup - GL Accounts",
			Users:      "Lookup - Users",
		}}
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if workbookFile != "" {
		cfg.WorkbookFile = workbookFile
	}

	var store ledger.Store
	if cfg.WorkbookFile != "" {
		store, err = workbook.New(cfg.WorkbookFile)
	} else {
		store, err = sheets.New(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
	}
	if err != nil {
		return nil, err
	}

	return ledger.NewService(store, ledger.Tabs{
		Log:        cfg.Tabs.Log,
		JobMaster:  cfg.Tabs.JobMaster,
		CostCodes:  cfg.Tabs.CostCodes,
		GLAccounts: cfg.Tabs.GLAccounts,
		Users:      cfg.Tabs.Users,
	}, logger.New()), nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	lines := make([]any, 0, len(splitAmounts))
	for i, amount := range splitAmounts {
		line := map[string]any{"amount": amount}
		if i < len(splitNotes) {
			line["notes"] = splitNotes[i]
		}
		if i < len(splitJobIDs) {
			line["jobId"] = splitJobIDs[i]
		}
		lines = append(lines, line)
	}
	req, verr := ledger.ParseSplitPayload(map[string]any{
		"parentId": splitParent,
		"splits":   lines,
	})
	if verr != nil {
		for _, e := range verr.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("invalid split request")
	}
	req.DryRun = !splitCommit
	req.AssignIDs = splitAssignIDs

	result, err := svc.Split(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runTransactions(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	// The username flag takes an email too; only the local part matters.
	ident, err := auth.IdentityForEmail(listUser, "")
	if err != nil {
		return fmt.Errorf("invalid --user value %q", listUser)
	}
	result, err := svc.NewForUser(ctx, ident.Username)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runLookups(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	svc, err := newService(ctx)
	if err != nil {
		return err
	}
	result, err := svc.Lookups(ctx)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

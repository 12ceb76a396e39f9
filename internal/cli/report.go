package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vbonduro/staycheck/internal/logging"
)

func newReportCmd() *cobra.Command {
	var checkinID, checkoutID int64

	cmd := &cobra.Command{
		Use:   "report <property_id>",
		Short: "Compile a damage report",
		Long:  "Compare a check-in with a later check-out of the same property and list the check-out's issues with their estimated cost.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property ID: %s", args[0])
			}
			return runReport(cmd, propertyID, checkinID, checkoutID)
		},
	}

	cmd.Flags().Int64Var(&checkinID, "checkin", 0, "check-in id")
	cmd.Flags().Int64Var(&checkoutID, "checkout", 0, "check-out id")
	_ = cmd.MarkFlagRequired("checkin")
	_ = cmd.MarkFlagRequired("checkout")

	return cmd
}

func runReport(cmd *cobra.Command, propertyID, checkinID, checkoutID int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	a, err := newApp(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.inspections.CompileDamageReport(cmd.Context(), propertyID, checkinID, checkoutID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, toReportOutput(rep))
	}
	printReport(out, rep)
	return nil
}

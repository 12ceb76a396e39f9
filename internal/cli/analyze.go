package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/staycheck/internal/domain"
	"github.com/vbonduro/staycheck/internal/logging"
)

func newAnalyzeCmd() *cobra.Command {
	var checkID, roomID int64

	cmd := &cobra.Command{
		Use:   "analyze <payload.json|->",
		Short: "Record issues from an analysis payload",
		Long: "Feed a raw photo analysis payload (missing_items, damage_detected, cleanliness_issues, condition_score) " +
			"for one room of a check through issue synthesis and store the resulting issues.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, checkID, roomID, args[0])
		},
	}

	cmd.Flags().Int64Var(&checkID, "check", 0, "check id")
	cmd.Flags().Int64Var(&roomID, "room", 0, "room id")
	_ = cmd.MarkFlagRequired("check")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func readPayload(cmd *cobra.Command, path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object: %v", domain.ErrInvalidAnalysisPayload, err)
	}
	return payload, nil
}

func runAnalyze(cmd *cobra.Command, checkID, roomID int64, path string) error {
	payload, err := readPayload(cmd, path)
	if err != nil {
		return err
	}

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

	res, err := a.inspections.SynthesizeIssuesFromPhoto(cmd.Context(), checkID, roomID, payload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, synthesisOutput{IssuesCreated: res.IssuesCreated, Issues: toIssueOutputs(res.Issues)})
	}
	fmt.Fprintf(out, "%d issue(s) created\n", res.IssuesCreated)
	printIssues(out, res.Issues)
	return nil
}

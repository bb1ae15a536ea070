package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/runner"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the catalog into Neo4j and print the validation report",
	Long: `Load merges providers, integrations (grouped by provider), the declared
relationships and the derived PROVIDED_BY edges into Neo4j, then reads the
graph back and prints a report.

A relationship whose endpoint is missing is reported and skipped; the run
continues. Use --strict to turn skipped items into exit status 2. Any store
error aborts the run.`,
	Example: `  # Load the embedded catalog
  TOOLGRAPH_NEO4J_PASSWORD=secret toolgraph load

  # Load a catalog file and fail on skipped relationships
  toolgraph load --catalog tools.yaml --strict`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	addStrictFlag(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	cfg := appConfig
	if cfg == nil {
		return internal.NewCLIError(internal.ExitConfigError, "configuration not loaded")
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close(context.WithoutCancel(ctx)))
	}()

	r := runner.New(a.client, cat,
		runner.WithProgress(a.progress),
		runner.WithLogger(a.logger),
		runner.WithTracer(a.tracer),
	)

	result, runErr := r.Run(ctx)
	if printErr := a.printLoadResult(result); printErr != nil {
		return errors.Join(runErr, printErr)
	}
	if runErr != nil {
		return runErr
	}

	if cfg.Load.Strict && result.HasFailures() {
		return types.NewError(types.RUN_PARTIAL_FAILURE, failureSummary(result))
	}
	return nil
}

// printLoadResult prints whatever the run produced: the report and banner in
// text mode, the whole result in JSON mode.
func (a *app) printLoadResult(result *runner.Result) error {
	if result == nil {
		return nil
	}
	if a.format == internal.FormatJSON {
		return a.out.PrintJSON(result)
	}
	if result.Report == nil {
		return nil
	}
	if err := a.printReport(result.Report); err != nil {
		return err
	}

	lines := loadSummary(result)
	if url := a.cfg.Neo4j.BrowserURL; url != "" {
		lines = append(lines, "Browse the graph at "+url)
	}
	if result.HasFailures() {
		a.progress.ErrorBanner("Load finished with skipped items", lines...)
	} else {
		a.progress.Banner("Load complete", lines...)
	}
	return nil
}

// loadSummary renders the counters shown in the completion banner.
func loadSummary(result *runner.Result) []string {
	lines := []string{
		"Run " + result.RunID,
		fmt.Sprintf("Nodes: %d created, %d updated", result.NodesCreated(), result.NodesUpdated()),
	}
	if rel := result.Relationships; rel != nil {
		lines = append(lines, fmt.Sprintf("Relationships: %d created, %d already present, %d skipped",
			rel.RelationshipsCreated, rel.RelationshipsExisting, len(result.FailedRelationships())))
	}
	if own := result.Ownership; own != nil {
		lines = append(lines, fmt.Sprintf("Ownership edges: %d created, %d already present",
			own.RelationshipsCreated, own.RelationshipsExisting))
	}
	return lines
}

func failureSummary(result *runner.Result) string {
	unowned := 0
	if result.Report != nil {
		unowned = len(result.Report.Unowned)
	}
	return fmt.Sprintf("%d relationships skipped, %d integrations without provider",
		len(result.FailedRelationships()), unowned)
}

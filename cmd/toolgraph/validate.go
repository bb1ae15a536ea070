package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
	"github.com/zero-day-ai/toolgraph/internal/runner"
	"github.com/zero-day-ai/toolgraph/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Print the graph report without writing anything",
	Long: `Validate connects to Neo4j and runs the read-only report queries: entity
counts per label, total edges, integrations per provider and per complexity,
edges per kind and integrations lacking their PROVIDED_BY edge.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	addStrictFlag(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := withTimeout(cmd.Context())
	defer cancel()

	cfg := appConfig
	if cfg == nil {
		return internal.NewCLIError(internal.ExitConfigError, "configuration not loaded")
	}

	a, err := newApp(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close(context.WithoutCancel(ctx)))
	}()

	r := runner.New(a.client, nil,
		runner.WithLogger(a.logger),
		runner.WithTracer(a.tracer),
	)

	rep, err := r.Validate(ctx)
	if err != nil {
		return err
	}
	if err := a.printReport(rep); err != nil {
		return err
	}

	if cfg.Load.Strict && !rep.Complete() {
		return types.NewError(types.RUN_PARTIAL_FAILURE,
			fmt.Sprintf("%d integrations without provider", len(rep.Unowned)))
	}
	return nil
}

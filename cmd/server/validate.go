package main

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/numina/internal/accuracy"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/phrazzld/numina/cmd/server"

func newValidateCommand(opts *rootOptions) *cobra.Command {
	var (
		reference string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare computed positions with a reference table",
		Long: `Computes the ephemeris at the reference table's instant and compares every
quantity with the published value. Without --reference the built-in J2000.0
table is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadReferenceTable(reference)
			if err != nil {
				return err
			}

			report := validateReference(cmd.Context(), table)

			if opts.format == formatJSON {
				err = writeJSON(cmd.OutOrStdout(), report)
			} else {
				err = report.WriteText(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			if strict && report.Summary.Check > 0 {
				return fmt.Errorf("%d quantities outside tolerance", report.Summary.Check)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reference, "reference", "", "YAML reference table (default built-in J2000.0)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any quantity needs checking")
	return cmd
}

func validateReference(ctx context.Context, table accuracy.ReferenceTable) accuracy.Report {
	_, span := otel.Tracer(tracerName).Start(ctx, "ephemeris.validate")
	defer span.End()
	span.SetAttributes(
		attribute.String("reference.source", table.Source),
		attribute.String("reference.instant", table.Instant.UTC().Format(time.RFC3339)))

	report := accuracy.NewValidator(nil).ValidateReference(table)
	span.SetAttributes(
		attribute.Float64("validation.confidence_percent", report.Summary.ConfidencePercent),
		attribute.String("validation.level", string(report.Summary.Level)))
	return report
}

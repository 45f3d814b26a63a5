package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abrezinsky/liftmeet/internal/services"
)

func (c *cli) recalcCmd() *cobra.Command {
	var contestID string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate every result of a contest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Services().Results.RecalculateContest(cmd.Context(), contestID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contest %s: %d registrations, %d disqualified, %d reclassified (%dµs)\n",
				summary.ContestID, summary.Registrations, summary.Disqualified, summary.Reclassified, summary.DurationMicros)
			return nil
		},
	}
	cmd.Flags().StringVar(&contestID, "contest", "", "Contest id")
	_ = cmd.MarkFlagRequired("contest")
	return cmd
}

func (c *cli) platesCmd() *cobra.Command {
	var (
		req services.PlanRequest
		bar float64
	)

	cmd := &cobra.Command{
		Use:   "plates",
		Short: "Show how to load the bar for a target weight",
		Example: `  liftmeet plates --target 182.5
  liftmeet plates --target 95 --gender Female
  liftmeet plates --target 140 --bar 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("bar") {
				req.BarWeightKg = &bar
			}
			plan, err := a.Services().Plates.PlanForTarget(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bar %g kg + clamps %g kg\n", plan.BarWeightKg, plan.ClampWeightTotalKg)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PLATE\tPER SIDE\tCOLOR")
			for _, p := range plan.Plates {
				fmt.Fprintf(tw, "%g kg\t%d\t%s\n", p.PlateWeight, p.PairCount, p.Color)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			status := "exact"
			if !plan.Exact {
				status = fmt.Sprintf("short of %g kg", plan.TargetWeightKg)
			}
			fmt.Fprintf(out, "total %g kg (%s)\n", plan.TotalLoaded, status)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.TargetKg, "target", 0, "Target bar weight in kg")
	f.StringVar(&req.Gender, "gender", "Male", "Lifter gender, selects the default bar")
	f.Float64Var(&bar, "bar", 0, "Bar weight override in kg")
	f.StringVar(&req.ContestID, "contest", "", "Use this contest's bar weights")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

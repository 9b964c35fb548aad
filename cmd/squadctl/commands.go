package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simaogato/squad-architect-backend/internal/usecase/seeder"
)

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:           "squadctl",
		Short:         "Manage the local fantasy squad and search for transfers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(opts, out)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dbPath, "db", "", "SQLite database path (default DB_PATH or squad.db)")
	flags.StringVar(&opts.feedFile, "feed-file", "", "read bootstrap-static JSON from this file instead of the live feed")
	flags.StringVar(&opts.fixturesFile, "fixtures-file", "", "read fixtures JSON from this file (with --feed-file)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	// withCatalog runs fn after loading the player catalog
	withCatalog := func(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := a.loadCatalog(cmd.Context(), opts); err != nil {
				return err
			}
			return fn(cmd.Context(), args)
		}
	}

	var reset bool
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default roster with an empty squad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				if err := a.seeder.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(out, "roster %s reset\n", seeder.DefaultRosterID)
				return nil
			}
			created, err := a.seeder.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "roster %s created\n", seeder.DefaultRosterID)
			} else {
				fmt.Fprintf(out, "roster %s already exists\n", seeder.DefaultRosterID)
			}
			return nil
		},
	}
	seedCmd.Flags().BoolVar(&reset, "reset", false, "replace an existing roster with an empty one")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the squad and its summary",
		Args:  cobra.NoArgs,
		RunE: withCatalog(func(ctx context.Context, args []string) error {
			view, err := a.squad.GetSquad(ctx, seeder.DefaultRosterID)
			if err != nil {
				return err
			}
			summary, err := a.dashboard.GetSummary(ctx, seeder.DefaultRosterID)
			if err != nil {
				return err
			}
			printView(out, view)
			printSummary(out, summary)
			return nil
		}),
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Swap bench players into the starting eleven while expected points improve",
		Args:  cobra.NoArgs,
		RunE: withCatalog(func(ctx context.Context, args []string) error {
			result, err := a.squad.Optimize(ctx, seeder.DefaultRosterID)
			if err != nil {
				return err
			}
			for _, swap := range result.Swaps {
				fmt.Fprintf(out, "swap %s <-> %s (+%.1f)\n", swap.BenchSlotID, swap.StarterSlotID, swap.Gain)
			}
			if len(result.Swaps) == 0 {
				fmt.Fprintln(out, "lineup already optimal")
			}
			printView(out, &result.View)
			return nil
		}),
	}

	var depth int
	var applyScout bool
	scoutCmd := &cobra.Command{
		Use:   "scout",
		Short: "Search for transfer packages of up to --depth transfers",
		Args:  cobra.NoArgs,
		RunE: withCatalog(func(ctx context.Context, args []string) error {
			result, err := a.squad.Scout(ctx, seeder.DefaultRosterID, depth)
			if err != nil {
				return err
			}
			printWarnings(out, result.Warnings)
			if result.Curve.Empty() {
				fmt.Fprintln(out, "no improving transfers found")
				return nil
			}
			printCurve(out, result.Curve)
			if !applyScout {
				return nil
			}
			exec, err := a.squad.ExecutePackage(ctx, result.Curve.RecommendedPackage().ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "applied recommended package")
			printWarnings(out, exec.Warnings)
			return nil
		}),
	}
	scoutCmd.Flags().IntVar(&depth, "depth", 0, "largest number of simultaneous transfers (default SCOUT_DEFAULT_DEPTH)")
	scoutCmd.Flags().BoolVar(&applyScout, "apply", false, "execute the recommended package")

	var applyWildcard bool
	wildcardCmd := &cobra.Command{
		Use:   "wildcard",
		Short: "Rebuild the whole squad from the current player pool",
		Args:  cobra.NoArgs,
		RunE: withCatalog(func(ctx context.Context, args []string) error {
			result, err := a.squad.Wildcard(ctx, seeder.DefaultRosterID)
			if err != nil {
				return err
			}
			if result.Package == nil {
				fmt.Fprintln(out, "player pool cannot fill a full squad")
				return nil
			}
			printPackage(out, 0, result.Package, false)
			printWarnings(out, result.Warnings)
			if !applyWildcard {
				return nil
			}
			if _, err := a.squad.ExecutePackage(ctx, result.Package.ID); err != nil {
				return err
			}
			fmt.Fprintln(out, "applied wildcard squad")
			return nil
		}),
	}
	wildcardCmd.Flags().BoolVar(&applyWildcard, "apply", false, "execute the rebuilt squad")

	subCmd := &cobra.Command{
		Use:   "sub SLOT_A SLOT_B",
		Short: "Swap a starter and a bench slot",
		Args:  cobra.ExactArgs(2),
		RunE: withCatalog(func(ctx context.Context, args []string) error {
			view, err := a.squad.Substitute(ctx, seeder.DefaultRosterID, args[0], args[1])
			if err != nil {
				return err
			}
			printView(out, view)
			return nil
		}),
	}

	root.AddCommand(seedCmd, showCmd, optimizeCmd, scoutCmd, wildcardCmd, subCmd)
	return root
}

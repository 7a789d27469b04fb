package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinduct/kinduct/pkg/check"
)

func newCheckCmd() *cobra.Command {
	var (
		withBMC bool
		bmcMax  int
	)
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Attempts to prove that the input transition system is correct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sys, err := a.loadSystem(args[0])
			if err != nil {
				return err
			}

			max := a.cfg.BMCMax
			if cmd.Flags().Changed("bmc-max") {
				withBMC = true
				max = &bmcMax
			}

			base, step, err := a.runInduction(cmd.Context(), sys)
			if err != nil {
				return err
			}
			a.printInductionSummary(sys, base, step)

			if !withBMC {
				return nil
			}
			seed, err := check.Merge(base, step)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			res, err := a.runBMC(cmd.Context(), sys, seed, max)
			if err != nil {
				return err
			}
			a.printBMCSummary(res, max)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withBMC, "bmc", false,
		"activates BMC: looks for a falsification for candidates found to not be inductive")
	cmd.Flags().IntVar(&bmcMax, "bmc-max", 0,
		"maximum number of transitions allowed from the initial state(s) in BMC, infinite by default (implies --bmc)")
	return cmd
}

func newBmcCmd() *cobra.Command {
	var bmcMax int
	cmd := &cobra.Command{
		Use:   "bmc FILE",
		Short: "Runs BMC (bounded model checking) without induction",
		Long: `Runs BMC without induction: kinduct searches for a falsification for
each proof obligation of the system.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sys, err := a.loadSystem(args[0])
			if err != nil {
				return err
			}
			max := a.cfg.BMCMax
			if cmd.Flags().Changed("max") {
				max = &bmcMax
			}
			seed := check.FullSeed(check.NewFullResult(sys))
			res, err := a.runBMC(cmd.Context(), sys, seed, max)
			if err != nil {
				return err
			}
			a.printBMCSummary(res, max)
			return nil
		},
	}
	cmd.Flags().IntVar(&bmcMax, "max", 0,
		"maximum number of transitions allowed from the initial state(s), infinite by default")
	return cmd
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Parses the input system and exits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			_, err = a.loadSystem(args[0])
			return err
		},
	}
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo TARGET",
		Short: "Generates a demo transition system file",
		Long: `Generates a demo transition system file, recommended if you are just
starting out. Overwrites the target file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.writeDemo(args[0])
		},
	}
}

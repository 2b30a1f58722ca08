package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/grid"
	"github.com/vktec/seedfinder/oracle"
)

var checkCmd = &cobra.Command{
	Use:   "check <seed> [observation file]",
	Short: "Test a seed against every observation",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCheck,
}

func init() {
	addSlimeMapFlags(checkCmd.Flags())
}

func runCheck(cmd *cobra.Command, args []string) error {
	seed, err := seedfinder.ParseSeed(args[0])
	if err != nil {
		return fmt.Errorf("could not parse seed: %w", err)
	}
	set, err := loadObservations(cmd, args[1:])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bad := 0
	for o := range set.Iter() {
		got := oracle.Test(o.Kind, seed, o.Locator)
		status := "ok"
		if got != o.Value {
			status = "MISMATCH"
			bad++
		}
		if _, err := fmt.Fprintf(out, "%-8s %s (seed gives %d)\n", status, o, got); err != nil {
			return err
		}
	}
	m, err := readSlimeMap(cmd.Flags())
	if err != nil {
		return err
	}
	if m != nil {
		explored := m.Count(grid.Slime) + m.Count(grid.Plain)
		if _, err := fmt.Fprintf(out, "slime map: %d of %d explored chunks disagree\n", m.Mismatches(seed), explored); err != nil {
			return err
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d observations disagree with seed %s", bad, set.Len(), seed)
	}
	return nil
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect searches saved in the run database",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run id>",
	Short: "Print the results of a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run id>...",
	Short: "Delete saved runs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRunsRm,
}

func init() {
	runsShowCmd.Flags().StringP("format", "f", "human", "Output `format` (valid options: csv, json, human)")
	runsShowCmd.Flags().Bool("observations", false, "Print the run's observations instead of its results")
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsRmCmd)
}

func openStore() (*store.Store, error) {
	dir := viper.GetString("store")
	if dir == "" {
		return nil, errors.New("no run database configured (--store or SEEDFINDER_STORE)")
	}
	return store.Open(store.Config{Path: dir, SyncWrites: true, Logger: log.WithField("component", "store")})
}

// saveRun records a finished search when a run database is configured.
func saveRun(report *seedfinder.Report, set *seedfinder.ObservationSet) error {
	if viper.GetString("store") == "" {
		return nil
	}
	var obs bytes.Buffer
	if err := seedfinder.EncodeObservations(&obs, set); err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Save(&store.Record{Report: *report, Observations: obs.String()}); err != nil {
		return err
	}
	log.WithField("run", report.RunID).Info("Saved run")
	return nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, rec := range recs {
		status := "complete"
		if rec.Report.Cancelled {
			status = "partial"
		}
		_, err := fmt.Fprintf(out, "%s  %s  %-8s  %d results  %s\n",
			rec.Created.Format("2006-01-02 15:04:05"), rec.Report.RunID, status,
			len(rec.Report.Results), rec.Report.Elapsed.Round(time.Millisecond))
		if err != nil {
			return err
		}
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Load(args[0])
	if err != nil {
		return err
	}
	if showObs, _ := cmd.Flags().GetBool("observations"); showObs {
		_, err := fmt.Fprint(cmd.OutOrStdout(), rec.Observations)
		return err
	}
	name, _ := cmd.Flags().GetString("format")
	format, err := formatter(name)
	if err != nil {
		return err
	}
	return format(cmd.OutOrStdout(), &rec.Report)
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, id := range args {
		if err := db.Delete(id); err != nil {
			return err
		}
		log.WithField("run", id).Info("Deleted run")
	}
	return nil
}

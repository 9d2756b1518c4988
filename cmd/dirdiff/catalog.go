package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"dirdiff/internal/snapshot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage saved snapshots",
}

func init() {
	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := state.catalog()
			if err != nil {
				return err
			}
			records, err := cat.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No snapshots saved")
				return nil
			}

			bold := color.New(color.Bold).SprintFunc()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHASH\tFILES\tCREATED\tROOT")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					bold(r.Name), r.Algorithm, r.Files, r.CreatedAt.Local().Format(time.DateTime), r.Root)
			}
			return w.Flush()
		},
	}

	var showCmd = &cobra.Command{
		Use:   "show NAME",
		Short: "Print a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := state.catalog()
			if err != nil {
				return err
			}
			record, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			c, err := record.Collection()
			if err != nil {
				return err
			}
			return snapshot.Write(os.Stdout, c)
		},
	}

	var rmCmd = &cobra.Command{
		Use:   "rm NAME...",
		Short: "Delete saved snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := state.catalog()
			if err != nil {
				return err
			}
			for _, name := range args {
				if err := cat.Remove(name); err != nil {
					return err
				}
				fmt.Println("Removed", name)
			}
			return nil
		},
	}

	catalogCmd.AddCommand(listCmd)
	catalogCmd.AddCommand(showCmd)
	catalogCmd.AddCommand(rmCmd)
}

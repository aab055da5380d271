package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCommitsCmd() *cobra.Command {
	var tableID, tableURI string

	cmd := &cobra.Command{
		Use:   "get-commits",
		Short: "Fetch a table's current unbackfilled commit window",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/tables/%s/commits?table_uri=%s", tableID, tableURI)
			respBody, status, err := getJSON(path)
			if err != nil {
				return err
			}
			if status >= 300 {
				return fmt.Errorf("get-commits failed (status %d): %s", status, string(respBody))
			}
			fmt.Println(string(respBody))
			return nil
		},
	}

	cmd.Flags().StringVar(&tableID, "table-id", "", "table identifier")
	cmd.Flags().StringVar(&tableURI, "table-uri", "", "table storage location")
	_ = cmd.MarkFlagRequired("table-id")
	_ = cmd.MarkFlagRequired("table-uri")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate coordinator statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			respBody, status, err := getJSON("/stats")
			if err != nil {
				return err
			}
			if status >= 300 {
				return fmt.Errorf("stats failed (status %d): %s", status, string(respBody))
			}
			fmt.Println(string(respBody))
			return nil
		},
	}
}

func newFaultCmd() *cobra.Command {
	var before, after bool

	cmd := &cobra.Command{
		Use:   "fault",
		Short: "Arm one-shot fault-injection hooks on the running coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("before") {
				body["throw_before_commit"] = before
			}
			if cmd.Flags().Changed("after") {
				body["throw_after_commit"] = after
			}

			respBody, status, err := postJSON("/admin/fault", body)
			if err != nil {
				return err
			}
			if status >= 300 {
				return fmt.Errorf("fault update failed (status %d): %s", status, string(respBody))
			}
			fmt.Println("fault hooks updated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&before, "before", false, "arm throw_before_commit")
	cmd.Flags().BoolVar(&after, "after", false, "arm throw_after_commit")

	return cmd
}

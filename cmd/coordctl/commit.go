package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var tableID, tableURI, fileName string
	var version, fileSize int64
	var disown bool

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Submit a commit to a table's ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"table_uri": tableURI,
				"is_disown": disown,
			}
			if fileName != "" {
				body["payload"] = map[string]any{
					"file_name": fileName,
					"version":   version,
					"file_size": fileSize,
				}
			}

			respBody, status, err := postJSON("/tables/"+tableID+"/commits", body)
			if err != nil {
				return err
			}
			if status >= 300 {
				return fmt.Errorf("commit rejected (status %d): %s", status, string(respBody))
			}
			fmt.Println("commit accepted")
			return nil
		},
	}

	cmd.Flags().StringVar(&tableID, "table-id", "", "table identifier")
	cmd.Flags().StringVar(&tableURI, "table-uri", "", "table storage location")
	cmd.Flags().StringVar(&fileName, "file-name", "", "commit file name")
	cmd.Flags().Int64Var(&version, "version", 0, "commit version")
	cmd.Flags().Int64Var(&fileSize, "file-size", 0, "commit file size in bytes")
	cmd.Flags().BoolVar(&disown, "disown", false, "mark this commit as the disown marker")
	_ = cmd.MarkFlagRequired("table-id")
	_ = cmd.MarkFlagRequired("table-uri")

	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/spf13/cobra"
)

func newReorderCmd(a *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Apply a board re-sequence from a JSON file",
		Long: `Apply a board re-sequence from a JSON file (or - for stdin).

The file holds an array of rows; every row is written in one transaction:

  [{"id": "...", "statusId": "...", "order": 0, "track": ["...", "..."]}]

Omitting "track" keeps the stored track.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor(cmd)
			if err != nil {
				return err
			}
			rows, err := readReorderRows(cmd, file)
			if err != nil {
				return err
			}
			if err := a.reorderIssuesUseCase().ReorderIssues(cmd.Context(), actor, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d batches\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with reorder rows, or - for stdin")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readReorderRows(cmd *cobra.Command, file string) ([]app.ReorderRow, error) {
	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening reorder file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var rows []app.ReorderRow
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing reorder rows: %w", err)
	}
	return rows, nil
}

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/ingest/logging"
	"github.com/notargets/ingest/readfiles"
)

// CSVCmd represents the csv command
var CSVCmd = &cobra.Command{
	Use:   "csv FILE",
	Short: "Parse a CSV file and write it back out normalised",
	Long: `
Parses FILE one line at a time. Quoted fields may contain commas, quote
characters are removed, every value stays text. The table is written back
with quotes only around fields that contain a comma.

ingest csv data.csv -o clean.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		tbl, err := readfiles.ReadCSV(args[0])
		if err != nil {
			return err
		}
		logger.Info("csv parsed", "file", args[0], "rows", tbl.NumRows(),
			"max_width", tbl.MaxWidth(), "ragged", tbl.IsRagged())

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			fmt.Fprintf(cmd.OutOrStdout(), "rows: %d\nmax width: %d\nragged: %v\n",
				tbl.NumRows(), tbl.MaxWidth(), tbl.IsRagged())
			return nil
		}
		outFile, _ := cmd.Flags().GetString("out")
		if outFile == "" {
			return readfiles.WriteCSV(cmd.OutOrStdout(), tbl)
		}
		file, err := os.Create(outFile)
		if err != nil {
			return err
		}
		if err = readfiles.WriteCSV(file, tbl); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	},
}

func init() {
	rootCmd.AddCommand(CSVCmd)
	CSVCmd.Flags().StringP("out", "o", "", "write the table to this file instead of stdout")
	CSVCmd.Flags().BoolP("summary", "s", false, "print row counts instead of the table")
}

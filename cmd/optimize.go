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

	"github.com/notargets/ingest/InputParameters"
	"github.com/notargets/ingest/logging"
	"github.com/notargets/ingest/optimizer"
	"github.com/notargets/ingest/readfiles"
)

// OptimizeCmd represents the optimize command
var OptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rank candidate configurations against a CSV data series",
	Long: `
Reads the optimizer description (-I) and a CSV file (-D), takes the configured
column as the data series and prints the best configurations by score.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		inputFile, _ := cmd.Flags().GetString("inputConditionsFile")
		dataFile, _ := cmd.Flags().GetString("dataFile")
		if inputFile == "" || dataFile == "" {
			return fmt.Errorf("must supply an input parameters file (-I) and a data file (-D), example input:%s", exampleInput)
		}
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return err
		}
		ip := &InputParameters.OptimizerParameters{}
		if err = ip.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", inputFile, err)
		}
		if verbose, _ := cmd.Flags().GetBool("printInput"); verbose {
			ip.Print(cmd.OutOrStdout())
		}

		tbl, err := readfiles.ReadCSV(dataFile)
		if err != nil {
			return err
		}
		if ip.SkipHeader && len(tbl) > 0 {
			tbl = tbl[1:]
		}
		series, err := tbl.FloatColumn(ip.Column)
		if err != nil {
			return fmt.Errorf("%s: %w", dataFile, err)
		}
		logger.Info("optimizing", "title", ip.Title, "configs", len(ip.Configs),
			"points", len(series), "trials", ip.Trials)

		results, err := optimizer.Optimize(ip.OptimizerConfigs(), series, optimizer.Options{
			Trials: ip.Trials,
			TopK:   ip.TopK,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, r := range results {
			fmt.Fprintf(w, "%d\t%.6f\t%s\n", i+1, r.Score, InputParameters.FormatConfig(r.Config))
		}
		return nil
	},
}

const exampleInput = `
########################################
Title: "Speed sweep"
Trials: 5
TopK: 3
Column: 0
SkipHeader: true
Configs:
  - speed: 20
  - speed: 40
########################################
`

func init() {
	rootCmd.AddCommand(OptimizeCmd)
	OptimizeCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the optimizer run")
	OptimizeCmd.Flags().StringP("dataFile", "D", "", "CSV file holding the data series")
	OptimizeCmd.Flags().BoolP("printInput", "p", false, "print the parsed input parameters")
}

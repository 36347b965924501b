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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/ingest/logging"
	"github.com/notargets/ingest/readfiles"
)

type settings struct {
	LogLevel   string
	LogFormat  string
	Profile    string // "", "cpu" or "mem"
	ProfileDir string
}

var (
	// profiler is non nil while a --profile run is active
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Read CSV tables and ASCII STL meshes",
	Long: `
Reads delimited text (CSV) into rows of text fields and ASCII STL files into
triangle lists, and ranks optimizer configurations against CSV data.

Settings come from flags, INGEST_* environment variables, or a YAML config
file ($HOME/.ingest.yaml unless --config is given).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.Setup(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		startProfile(s)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfile()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	stopProfile()
	if err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.ingest.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().String("profile", "", "write a profile while running: cpu, mem")
	rootCmd.PersistentFlags().String("profile-dir", ".", "directory for profile output")
}

// loadSettings layers flags over environment over config file
func loadSettings(cmd *cobra.Command) (s settings, err error) {
	v := viper.New()
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"log.level":   "log-level",
		"log.format":  "log-format",
		"profile":     "profile",
		"profile_dir": "profile-dir",
	} {
		if err = v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return
		}
	}
	v.SetEnvPrefix("ingest")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgFile, _ := flags.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		var home string
		if home, err = homedir.Dir(); err != nil {
			return
		}
		v.AddConfigPath(home)
		v.SetConfigName(".ingest")
		v.SetConfigType("yaml")
	}
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return s, fmt.Errorf("reading config: %w", err)
		}
		err = nil
	}

	s = settings{
		LogLevel:   v.GetString("log.level"),
		LogFormat:  v.GetString("log.format"),
		Profile:    strings.ToLower(v.GetString("profile")),
		ProfileDir: v.GetString("profile_dir"),
	}
	return s, s.validate()
}

func (s settings) validate() error {
	var errs []string
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if f := strings.ToLower(s.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Sprintf("log format %q must be one of: text, json", s.LogFormat))
	}
	if s.Profile != "" && s.Profile != "cpu" && s.Profile != "mem" {
		errs = append(errs, fmt.Sprintf("profile %q must be one of: cpu, mem", s.Profile))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func startProfile(s settings) {
	var mode func(*profile.Profile)
	switch s.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return
	}
	profiler = profile.Start(mode, profile.ProfilePath(s.ProfileDir), profile.Quiet, profile.NoShutdownHook)
}

func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

// report prints err with a hint for the reader error kinds
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	switch {
	case errors.Is(err, readfiles.ErrIO):
		fmt.Fprintln(w, "hint: check that the file exists and is readable")
	case errors.Is(err, readfiles.ErrMalformedData):
		fmt.Fprintln(w, "hint: the file format was recognised but its contents are damaged")
	}
}

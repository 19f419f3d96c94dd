// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-seedkeeper.
//
// go-seedkeeper is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the seedkeeper command tree with fresh flag state
func NewRootCommand() *cobra.Command {
	cfg := NewConfig()

	rootCmd := &cobra.Command{
		Use:   "seedkeeper",
		Short: "seedkeeper - Hardware bound seed vault and password generator",
		Long: `seedkeeper stores up to 9 seeds on a byte device, each encrypted with a
key bound to the hardware id, and derives deterministic site passwords
from them.

Supported device backends:
  - file:   device image on disk (default)
  - memory: volatile RAM device

Supported password charsets:
  - base62:  letters and digits
  - base94:  letters, digits and symbols
  - letters: a-z and A-Z
  - digits:  0-9`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.sync()
		},
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (.yaml, .yml or .toml)")
	flags.String("backend", "", "device backend (memory, file)")
	flags.String("device", "", "device image path for the file backend")
	flags.Int("device-size", 0, "device size in bytes")
	flags.String("hwid", "", "static hardware id as 16 hex characters")
	flags.StringP("output", "o", "text", "output format (text, json, table)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file after each command")
	_ = cfg.v.BindPFlags(flags)

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd(cfg))
	rootCmd.AddCommand(newInfoCmd(cfg))
	rootCmd.AddCommand(newSeedCmd(cfg))
	rootCmd.AddCommand(newPasswordCmd(cfg))
	rootCmd.AddCommand(newResetCmd(cfg))
	rootCmd.AddCommand(newCheckCmd(cfg))

	return rootCmd
}

// Execute runs the root command and prints any error to stderr
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		format, _ := rootCmd.PersistentFlags().GetString("output")
		_ = NewPrinter(format, os.Stderr).PrintError(err) // best-effort
		return err
	}
	return nil
}

// withSession opens the engine for cmd, runs fn and closes the session
func withSession(cfg *Config, cmd *cobra.Command, fn func(*session) error) (err error) {
	printVerbose(cfg, cmd, "opening device")
	s, err := cfg.open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(cfg *Config, cmd *cobra.Command, format string, args ...interface{}) {
	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "[VERBOSE] "+format+"\n", args...)
	}
}

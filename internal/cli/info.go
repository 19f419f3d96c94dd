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
	"github.com/spf13/cobra"
)

func newInfoCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show device information",
		Long:  `Show the version, hardware id, store usage and populated slots`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cfg, cmd, func(s *session) error {
				info, err := s.engine.Info()
				if err != nil {
					return err
				}
				return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintInfo(info)
			})
		},
	}
}

func newResetCmd(cfg *Config) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every stored seed",
		Long: `Factory reset the device. Every seed is erased and cannot be
recovered. Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errResetNotConfirmed
			}
			return withSession(cfg, cmd, func(s *session) error {
				if err := s.engine.FactoryReset(); err != nil {
					return err
				}
				return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintSuccess("Device reset, all seeds erased")
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the factory reset")
	return cmd
}

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
	"strings"

	"github.com/jeremyhahn/go-seedkeeper/pkg/health"
	"github.com/spf13/cobra"
)

func newCheckCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run device self-checks",
		Long: `Check that the hardware id is readable, the store header is valid
with room for another seed, and every stored slot record yields a seed.
Exits non-zero when any check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cfg, cmd, func(s *session) error {
				checker := health.NewChecker()
				s.engine.RegisterHealthChecks(checker)
				printVerbose(cfg, cmd, "running checks: %s", strings.Join(checker.Names(), ", "))
				results := checker.Run(cmd.Context())

				status := health.AggregateStatus(results)
				if err := NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintHealth(status, results); err != nil {
					return err
				}
				if status == health.StatusUnhealthy {
					return fmt.Errorf("%w: %s", errUnhealthy, status)
				}
				return nil
			})
		},
	}
}

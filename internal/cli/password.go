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
	"github.com/jeremyhahn/go-seedkeeper/pkg/kdf"
	"github.com/spf13/cobra"
)

func newPasswordCmd(cfg *Config) *cobra.Command {
	var (
		slot       uint8
		input      string
		length     int
		charset    string
		useDefault bool
	)

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Derive a password from a stored seed",
		Long: `Derive a deterministic password from the seed in a slot.

With --input the password depends on the input, the length and the
charset. --default derives the 100 character base62 one-touch password.
--length and --charset default to the password section of the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (input == "") == !useDefault {
				return errPasswordInput
			}

			return withSession(cfg, cmd, func(s *session) error {
				var (
					password string
					err      error
				)
				if useDefault {
					password, err = s.engine.DefaultPassword(slot)
				} else {
					if !cmd.Flags().Changed("length") {
						length = s.settings.Password.DefaultLength
					}
					if !cmd.Flags().Changed("charset") {
						charset = s.settings.Password.DefaultCharset
					}
					cs, perr := kdf.ParseCharset(charset)
					if perr != nil {
						return perr
					}
					printVerbose(cfg, cmd, "deriving %d %s characters from slot %d", length, cs, slot)
					password, err = s.engine.DerivePassword(slot, input, length, cs)
				}
				if err != nil {
					return err
				}
				return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintPassword(password)
			})
		},
	}

	cmd.Flags().Uint8Var(&slot, "slot", 0, "slot number (1-9)")
	cmd.Flags().StringVar(&input, "input", "", "derivation input, such as a site name")
	cmd.Flags().IntVar(&length, "length", 0, "password length (1-128, default from config)")
	cmd.Flags().StringVar(&charset, "charset", "", "charset (base62, base94, letters, digits; default from config)")
	cmd.Flags().BoolVar(&useDefault, "default", false, "derive the one-touch default password")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}

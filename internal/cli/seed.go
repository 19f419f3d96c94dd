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
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
	"github.com/jeremyhahn/go-seedkeeper/pkg/seed"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
)

// mnemonicEntropyBits yields a 24 word mnemonic
const mnemonicEntropyBits = 256

// seedSource selects where seed init reads its 64 raw bytes from
type seedSource struct {
	hex        string
	mnemonic   string
	passphrase string
	stdin      bool
	generate   bool
}

func newSeedCmd(cfg *Config) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Manage stored seeds",
		Long:  `Initialize and list the seeds stored in the device slots`,
	}
	seedCmd.AddCommand(newSeedInitCmd(cfg))
	seedCmd.AddCommand(newSeedListCmd(cfg))
	return seedCmd
}

func newSeedInitCmd(cfg *Config) *cobra.Command {
	var (
		slot uint8
		src  seedSource
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store a seed in an empty slot",
		Long: `Store a seed in an empty slot. The raw input is exactly 64 bytes,
given as hex (--hex or hex on stdin with --stdin), or derived from a BIP-39
mnemonic (--mnemonic, optionally with --passphrase). --generate creates a
fresh 24 word mnemonic and prints it once.

A populated slot is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, mnemonic, err := src.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer secret.Zero(raw)

			return withSession(cfg, cmd, func(s *session) error {
				printVerbose(cfg, cmd, "initializing slot %d", slot)
				result := s.engine.InitializeSeed(slot, raw)
				if result != seed.Ok {
					return fmt.Errorf("failed to initialize slot %d: %w", slot, result.Err())
				}
				return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintSeedInitialized(slot, mnemonic)
			})
		},
	}

	cmd.Flags().Uint8Var(&slot, "slot", 0, "slot number (1-9)")
	cmd.Flags().StringVar(&src.hex, "hex", "", "raw seed as 128 hex characters")
	cmd.Flags().StringVar(&src.mnemonic, "mnemonic", "", "BIP-39 mnemonic")
	cmd.Flags().StringVar(&src.passphrase, "passphrase", "", "BIP-39 passphrase (with --mnemonic or --generate)")
	cmd.Flags().BoolVar(&src.stdin, "stdin", false, "read the raw seed as hex from stdin")
	cmd.Flags().BoolVar(&src.generate, "generate", false, "generate a new BIP-39 mnemonic")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}

// read returns the raw seed and, for --generate, the new mnemonic
func (src *seedSource) read(stdin io.Reader) ([]byte, string, error) {
	sources := 0
	for _, set := range []bool{src.hex != "", src.mnemonic != "", src.stdin, src.generate} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, "", errSeedSource
	}

	switch {
	case src.hex != "":
		return decodeSeedHex(src.hex)
	case src.stdin:
		data, err := io.ReadAll(io.LimitReader(stdin, 4096))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		defer secret.Zero(data)
		return decodeSeedHex(string(data))
	case src.mnemonic != "":
		mnemonic := strings.Join(strings.Fields(src.mnemonic), " ")
		if !bip39.IsMnemonicValid(mnemonic) {
			return nil, "", errInvalidMnemonic
		}
		return bip39.NewSeed(mnemonic, src.passphrase), "", nil
	default:
		entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate entropy: %w", err)
		}
		defer secret.Zero(entropy)
		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate mnemonic: %w", err)
		}
		return bip39.NewSeed(mnemonic, src.passphrase), mnemonic, nil
	}
}

func decodeSeedHex(s string) ([]byte, string, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, "", fmt.Errorf("invalid seed hex: %w", err)
	}
	return raw, "", nil
}

func newSeedListCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List populated slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cfg, cmd, func(s *session) error {
				info, err := s.engine.Info()
				if err != nil {
					return err
				}
				return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintSlots(info.NumSlots, info.Populated)
			})
		},
	}
}

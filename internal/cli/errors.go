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

import "errors"

var (
	errResetNotConfirmed = errors.New("refusing to reset without --yes")
	errSeedSource        = errors.New("exactly one of --hex, --mnemonic, --stdin or --generate is required")
	errInvalidMnemonic   = errors.New("invalid mnemonic")
	errPasswordInput     = errors.New("exactly one of --input or --default is required")
	errUnhealthy         = errors.New("device check failed")
)

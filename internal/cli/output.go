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
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/jeremyhahn/go-seedkeeper/pkg/engine"
	"github.com/jeremyhahn/go-seedkeeper/pkg/health"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintVersion prints build information
func (p *Printer) PrintVersion() error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"version":    Version,
			"commit":     GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "seedkeeper version %s\n", Version)
		fmt.Fprintf(p.writer, "Git commit: %s\n", GitCommit)
		fmt.Fprintf(p.writer, "Build date: %s\n", BuildDate)
		fmt.Fprintf(p.writer, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(p.writer, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintInfo prints the device summary
func (p *Printer) PrintInfo(info engine.Info) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"version": Version,
			"device":  info,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Version:     %s\n", Version)
		fmt.Fprintf(p.writer, "Hardware ID: %s\n", info.HardwareID)
		fmt.Fprintf(p.writer, "Capacity:    %d bytes\n", info.Capacity)
		fmt.Fprintf(p.writer, "Used:        %d bytes\n", info.Used)
		fmt.Fprintf(p.writer, "Free:        %d bytes\n", info.Free)
		fmt.Fprintf(p.writer, "Slots:       %d/%d populated\n", len(info.Populated), info.NumSlots)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSlots prints the slot table
func (p *Printer) PrintSlots(numSlots int, populated []int) error {
	filled := make(map[int]bool, len(populated))
	for _, n := range populated {
		filled[n] = true
	}

	switch p.format {
	case OutputFormatJSON:
		if populated == nil {
			populated = []int{}
		}
		return p.printJSON(map[string]interface{}{
			"num_slots": numSlots,
			"populated": populated,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-6s %-10s\n", "SLOT", "STATE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 17))
		for n := 1; n <= numSlots; n++ {
			state := "empty"
			if filled[n] {
				state = "populated"
			}
			fmt.Fprintf(p.writer, "%-6d %-10s\n", n, state)
		}
		return nil
	case OutputFormatText:
		if len(populated) == 0 {
			fmt.Fprintln(p.writer, "No seeds stored")
			return nil
		}
		fmt.Fprintln(p.writer, "Populated slots:")
		for _, n := range populated {
			fmt.Fprintf(p.writer, "  - %d\n", n)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSeedInitialized reports a stored seed. A generated mnemonic is
// printed so the operator can record it.
func (p *Printer) PrintSeedInitialized(slot uint8, mnemonic string) error {
	switch p.format {
	case OutputFormatJSON:
		out := map[string]interface{}{
			"status": "success",
			"slot":   slot,
			"result": "ok",
		}
		if mnemonic != "" {
			out["mnemonic"] = mnemonic
		}
		return p.printJSON(out)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Seed stored in slot %d\n", slot)
		if mnemonic != "" {
			fmt.Fprintf(p.writer, "Mnemonic: %s\n", mnemonic)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPassword prints a derived password
func (p *Printer) PrintPassword(password string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"password": password,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, password)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintHealth prints self-check results
func (p *Printer) PrintHealth(status health.Status, results []health.CheckResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": status,
			"checks": results,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-12s %-10s %s\n", "CHECK", "STATUS", "DETAIL")
		fmt.Fprintln(p.writer, strings.Repeat("-", 60))
		for _, r := range results {
			fmt.Fprintf(p.writer, "%-12s %-10s %s\n", r.Name, r.Status, healthDetail(r))
		}
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Status: %s\n", status)
		for _, r := range results {
			fmt.Fprintf(p.writer, "  - %s: %s (%s)\n", r.Name, r.Status, healthDetail(r))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

func healthDetail(r health.CheckResult) string {
	if r.Error != "" {
		return r.Message + ": " + r.Error
	}
	return r.Message
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		// Unknown formats still surface the error
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

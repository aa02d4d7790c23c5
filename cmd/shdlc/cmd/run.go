// Copyright the shdl authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/flatten"
	"github.com/hdlforge/shdl/pkg/library"
	"github.com/hdlforge/shdl/pkg/sim"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] source_file top_component",
	Short: "compile a component and simulate it for a fixed number of steps.",
	Long: `Compile a component, poke its inputs, step it forward a fixed number of
delta-cycles, and print the resulting outputs.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		if err := runSim(cmd, args[0], args[1]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringArray("poke", nil, "name=value input assignment, applied before stepping (repeatable)")
	runCmd.Flags().StringArray("peek", nil, "output port to print after stepping (repeatable; default: all outputs)")
	runCmd.Flags().StringArray("peek-gate", nil, "internal gate to print after stepping; requires --debug (repeatable)")
	runCmd.Flags().Uint("steps", 1, "number of delta-cycles to step before peeking")
	runCmd.Flags().Bool("debug", false, "enable internal-gate introspection via --peek-gate")
}

func runSim(cmd *cobra.Command, sourcePath, top string) error {
	searchPath, err := resolveSearchPath(cmd)
	if err != nil {
		return err
	}

	lib := library.New(searchPath, log.StandardLogger())

	contents, err := os.ReadFile(sourcePath) //nolint:gosec // operator-supplied CLI argument
	if err != nil {
		return fmt.Errorf("reading %q: %w", sourcePath, err)
	}

	if err := lib.LoadSource(sourcePath, string(contents)); err != nil {
		return err
	}

	bag := diag.NewBag()

	netlist, err := flatten.Flatten(top, lib, bag)
	if err != nil {
		return err
	}

	bag.SetMissingDriverFatal(true)

	result, err := analysis.Analyze(netlist, bag)
	if err != nil {
		return err
	}

	for _, d := range bag.All() {
		fmt.Println(d.Error())
	}

	if bag.Fatal() {
		return fmt.Errorf("compilation of %q failed with fatal diagnostics", top)
	}

	sv := sim.New(result)
	sv.Debug = GetFlag(cmd, "debug")

	for _, assignment := range GetStringArray(cmd, "poke") {
		name, value, err := parsePoke(assignment)
		if err != nil {
			return err
		}

		if err := sv.Poke(name, value); err != nil {
			return err
		}
	}

	steps, err := cmd.Flags().GetUint("steps")
	if err != nil {
		return err
	}

	sv.Step(int(steps))

	peekPorts := GetStringArray(cmd, "peek")
	if len(peekPorts) == 0 {
		for _, p := range netlist.Outputs {
			peekPorts = append(peekPorts, p.Name)
		}
	}

	width := terminalWidth()

	for _, name := range peekPorts {
		value, err := sv.Peek(name)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("%s = %d", name, value)
		if len(line) > width {
			line = line[:width]
		}

		fmt.Println(line)
	}

	for _, name := range GetStringArray(cmd, "peek-gate") {
		value, err := sv.PeekGate(name)
		if err != nil {
			return err
		}

		fmt.Printf("%s = %t\n", name, value)
	}

	return nil
}

func parsePoke(assignment string) (string, uint64, error) {
	name, valueStr, ok := strings.Cut(assignment, "=")
	if !ok {
		return "", 0, fmt.Errorf("--poke expects name=value, got %q", assignment)
	}

	value, err := strconv.ParseUint(valueStr, 0, 64)
	if err != nil {
		return "", 0, fmt.Errorf("--poke %q: %w", assignment, err)
	}

	return name, value, nil
}

// terminalWidth reports the attached terminal's column width, falling back
// to a conservative default when stdout is not a terminal (e.g. piped or
// redirected output in CI).
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}

	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}

	return w
}

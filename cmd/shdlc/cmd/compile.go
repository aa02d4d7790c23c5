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
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/flatten"
	"github.com/hdlforge/shdl/pkg/library"
	"github.com/hdlforge/shdl/pkg/sim/debuginfo"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file top_component",
	Short: "flatten a component down to primitive gates and report diagnostics.",
	Long:  "Parse, flatten and analyze an SHDL source file, reporting every diagnostic produced along the way.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		debugOut := GetString(cmd, "debuginfo")

		if err := runCompile(cmd, args[0], args[1], debugOut); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	compileCmd.Flags().String("debuginfo", "", "write a JSON lane/span sidecar to this path")
	compileCmd.Flags().Bool("check-cycles", false, "report combinational cycles (informational; a cycle is legal input)")
}

func runCompile(cmd *cobra.Command, sourcePath, top, debugOut string) error {
	searchPath, err := resolveSearchPath(cmd)
	if err != nil {
		return err
	}

	lib := library.New(searchPath, log.StandardLogger())

	contents, err := os.ReadFile(sourcePath) //nolint:gosec // operator-supplied CLI argument
	if err != nil {
		return fmt.Errorf("reading %q: %w", sourcePath, err)
	}

	start := time.Now()

	if err := lib.LoadSource(sourcePath, string(contents)); err != nil {
		return err
	}

	log.WithField("elapsed", time.Since(start)).Debug("parsed and loaded source")

	bag := diag.NewBag()

	start = time.Now()

	netlist, err := flatten.Flatten(top, lib, bag)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"elapsed": time.Since(start), "gates": len(netlist.Gates)}).Debug("flattened component")

	if GetFlag(cmd, "check-cycles") {
		for _, d := range flatten.DetectCombinationalCycles(netlist) {
			bag.Add(d)
		}
	}

	start = time.Now()

	result, err := analysis.Analyze(netlist, bag)
	if err != nil {
		return err
	}

	log.WithField("elapsed", time.Since(start)).Debug("analyzed netlist")

	for _, d := range bag.All() {
		fmt.Println(d.Error())
	}

	if bag.Fatal() {
		return fmt.Errorf("compilation of %q failed with fatal diagnostics", top)
	}

	if debugOut != "" {
		f, err := os.Create(debugOut) //nolint:gosec // operator-supplied CLI argument
		if err != nil {
			return fmt.Errorf("creating %q: %w", debugOut, err)
		}
		defer f.Close()

		if err := debuginfo.Write(f, debuginfo.Build(result)); err != nil {
			return fmt.Errorf("writing debug info: %w", err)
		}
	}

	fmt.Printf("%s: %d gate(s), %d chunk partition(s)\n", top, len(result.Gates), len(result.ChunkCounts))

	return nil
}

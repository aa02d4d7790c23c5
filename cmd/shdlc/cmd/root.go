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

// Package cmd implements shdlc's command-line front end: thin wiring
// between pkg/library, pkg/flatten, pkg/analysis and pkg/sim. It holds no
// domain logic of its own beyond argument parsing, stage timing, and
// diagnostic presentation.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled in at release build time; "go run"/"go install" builds
// fall back to build info or report themselves unknown.
var Version string

var rootCmd = &cobra.Command{
	Use:   "shdlc",
	Short: "A compiler and simulator for the SHDL gate description language.",
	Long:  "shdlc compiles SHDL components down to primitive gates and simulates the result.",
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			return
		}

		fmt.Print("shdlc ")

		switch {
		case Version != "":
			fmt.Print(Version)
		default:
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}
		}

		fmt.Println()
	},
}

// Execute runs the root command; this is called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringArray("search-path", nil, "directory to search for imported modules (repeatable)")
	rootCmd.PersistentFlags().String("config", "", "path to a shdl search-path config file (yaml)")
	rootCmd.Flags().Bool("version", false, "print version and exit")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(runCmd)
}

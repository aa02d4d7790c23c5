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

	"github.com/spf13/cobra"

	"github.com/hdlforge/shdl/pkg/library"
)

// GetFlag gets an expected bool flag, or exits if the flag is undeclared.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if the flag is undeclared.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string-array flag, or exits if the flag is
// undeclared.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// resolveSearchPath merges an explicit --config file's search path (if any)
// with any --search-path flags given directly, flags taking precedence by
// being searched first.
func resolveSearchPath(cmd *cobra.Command) ([]string, error) {
	fromFlags := GetStringArray(cmd, "search-path")

	configPath := GetString(cmd, "config")
	if configPath == "" {
		return fromFlags, nil
	}

	cfg, err := library.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", configPath, err)
	}

	return append(append([]string{}, fromFlags...), cfg.SearchPath...), nil
}

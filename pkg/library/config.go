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

package library

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SearchPathConfig is the on-disk shape of a Library's search-path and
// stdlib configuration, so a host embedding the compiler can persist it
// instead of re-deriving it from CLI flags every run.
type SearchPathConfig struct {
	SearchPath []string `yaml:"search_path"`
	Stdlib     bool     `yaml:"stdlib"`
}

// LoadConfig reads a SearchPathConfig from a YAML file.
func LoadConfig(path string) (SearchPathConfig, error) {
	var cfg SearchPathConfig

	contents, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes a SearchPathConfig back out as YAML.
func (c SearchPathConfig) Save(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0o644) //nolint:gosec // config files are not secrets
}

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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdlforge/shdl/pkg/diag"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}

func TestLoadSourceRegistersComponents(t *testing.T) {
	lib := New(nil, nil)

	err := lib.LoadSource("t.shdl", "component a() -> () {}\ncomponent b() -> () {}")
	require.NoError(t, err)

	_, ok := lib.Lookup("a")
	assert.True(t, ok)
	_, ok = lib.Lookup("b")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, lib.Names())
}

func TestLoadSourceDuplicateNameFails(t *testing.T) {
	lib := New(nil, nil)

	err := lib.LoadSource("t.shdl", "component a() -> () {}\ncomponent a() -> () {}")
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.DuplicateName, d.Code)
}

func TestLoadSourceComponentShadowingPrimitiveFails(t *testing.T) {
	lib := New(nil, nil)

	err := lib.LoadSource("t.shdl", "component AND() -> () {}")
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.DuplicateName, d.Code)
}

func TestLoadModuleFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adders.shdl", "component half_adder() -> () {}")

	lib := New([]string{dir}, nil)

	err := lib.LoadSource("t.shdl", "use adders :: { half_adder };\ncomponent top() -> () {}")
	require.NoError(t, err)

	_, ok := lib.Lookup("half_adder")
	assert.True(t, ok)
}

func TestLoadModuleNotFoundInSearchPath(t *testing.T) {
	lib := New([]string{t.TempDir()}, nil)

	err := lib.LoadSource("t.shdl", "use missing :: { foo };\ncomponent top() -> () {}")
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.ModuleNotFound, d.Code)
}

func TestLoadModuleComponentNotInModuleFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adders.shdl", "component half_adder() -> () {}")

	lib := New([]string{dir}, nil)

	err := lib.LoadSource("t.shdl", "use adders :: { full_adder };\ncomponent top() -> () {}")
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.ComponentNotInModule, d.Code)
}

func TestLoadModuleImportCycleFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.shdl", "use b :: { bcomp };\ncomponent acomp() -> () {}")
	writeFile(t, dir, "b.shdl", "use a :: { acomp };\ncomponent bcomp() -> () {}")

	lib := New([]string{dir}, nil)

	err := lib.LoadModule("a", nil)
	require.Error(t, err)

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.ImportCycle, d.Code)
}

func TestLoadModuleIsCachedOnceLoaded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "adders.shdl", "component half_adder() -> () {}")

	lib := New([]string{dir}, nil)

	require.NoError(t, lib.LoadModule("adders", nil))
	require.NoError(t, lib.LoadModule("adders", nil))

	assert.Len(t, lib.Names(), 1)
}

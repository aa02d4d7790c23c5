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

package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestOrdersByDistanceThenName(t *testing.T) {
	got := Suggest("carrry", []string{"carry", "cary", "unrelated_entirely_different"}, 3)
	assert.Equal(t, []string{"carry", "cary"}, got)
}

func TestSuggestDropsFarCandidates(t *testing.T) {
	got := Suggest("sum", []string{"completely_unrelated_identifier"}, 5)
	assert.Empty(t, got)
}

func TestSuggestRespectsMax(t *testing.T) {
	got := Suggest("sum", []string{"sun", "sup", "sim", "sums"}, 2)
	assert.Len(t, got, 2)
}

func TestSuggestExactMatchSortsFirst(t *testing.T) {
	got := Suggest("carry", []string{"cary", "carry"}, 2)
	assert.Equal(t, []string{"carry", "cary"}, got)
}

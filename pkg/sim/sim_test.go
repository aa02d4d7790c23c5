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

package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hdlforge/shdl/pkg/analysis"
	"github.com/hdlforge/shdl/pkg/diag"
	"github.com/hdlforge/shdl/pkg/flatten"
	"github.com/hdlforge/shdl/pkg/library"
	"github.com/hdlforge/shdl/pkg/sim"
)

const halfAdderSrc = `
component half_adder(a, b) -> (sum, carry) {
	x1: XOR;
	a1: AND;
	connect {
		a -> x1.A;
		b -> x1.B;
		a -> a1.A;
		b -> a1.B;
		x1.O -> sum;
		a1.O -> carry;
	}
}
`

const fullAdderSrc = halfAdderSrc + `
component full_adder(a, b, cin) -> (sum, cout) {
	h1: half_adder;
	h2: half_adder;
	o1: OR;
	connect {
		a -> h1.a;
		b -> h1.b;
		h1.sum -> h2.a;
		cin -> h2.b;
		h2.sum -> sum;
		h1.carry -> o1.A;
		h2.carry -> o1.B;
		o1.O -> cout;
	}
}
`

const ripple8Src = fullAdderSrc + `
component ripple8(a[8], b[8], cin) -> (sum[8], cout) {
	>i[1:8] {
		fa{i}: full_adder;
	}
	connect {
		>i[1:8] {
			a[i] -> fa{i}.a;
			b[i] -> fa{i}.b;
			fa{i}.sum -> sum[i];
		}
		cin -> fa1.cin;
		>i[2:8] {
			fa{i-1}.cout -> fa{i}.cin;
		}
		fa8.cout -> cout;
	}
}
`

func buildSimulator(src, top string) *sim.Simulator {
	lib := library.New(nil, nil)
	Expect(lib.LoadSource("t.shdl", src)).To(Succeed())

	bag := diag.NewBag()

	netlist, err := flatten.Flatten(top, lib, bag)
	Expect(err).NotTo(HaveOccurred())

	result, err := analysis.Analyze(netlist, bag)
	Expect(err).NotTo(HaveOccurred())
	Expect(bag.Fatal()).To(BeFalse())

	return sim.New(result)
}

var _ = Describe("half_adder", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = buildSimulator(halfAdderSrc, "half_adder")
	})

	truthTable := []struct {
		a, b, sum, carry uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 1, 0},
		{1, 1, 0, 1},
	}

	It("matches the truth table for every input combination", func() {
		for _, row := range truthTable {
			s.Reset()
			Expect(s.Poke("a", row.a)).To(Succeed())
			Expect(s.Poke("b", row.b)).To(Succeed())
			s.Step(1)

			sum, err := s.Peek("sum")
			Expect(err).NotTo(HaveOccurred())
			Expect(sum).To(Equal(row.sum))

			carry, err := s.Peek("carry")
			Expect(err).NotTo(HaveOccurred())
			Expect(carry).To(Equal(row.carry))
		}
	})
})

var _ = Describe("full_adder", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = buildSimulator(fullAdderSrc, "full_adder")
	})

	It("adds three single bits across two delta-cycles of hierarchy depth", func() {
		s.Reset()
		Expect(s.Poke("a", 1)).To(Succeed())
		Expect(s.Poke("b", 1)).To(Succeed())
		Expect(s.Poke("cin", 1)).To(Succeed())

		// Inlining adds no gate at the half_adder boundaries, but each gate
		// still reads the previous cycle's values: h1's XOR reaches h2 one
		// Step later. The longest path (h1 XOR, h2 AND, OR) is three gates,
		// yet for a=b=cin=1 both outputs hold their final value after two
		// Steps, because h2's AND stays 0 and h1's carry reaches the OR in
		// the second Step.
		s.Step(2)

		sum, err := s.Peek("sum")
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(uint64(1)))

		cout, err := s.Peek("cout")
		Expect(err).NotTo(HaveOccurred())
		Expect(cout).To(Equal(uint64(1)))
	})
})

var _ = Describe("host API", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = buildSimulator(halfAdderSrc, "half_adder")
	})

	It("round-trips a poked input through peek without stepping", func() {
		s.Reset()
		Expect(s.Poke("a", 1)).To(Succeed())

		a, err := s.Peek("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(uint64(1)))
	})

	It("masks a poked value to the input port's width", func() {
		s.Reset()
		Expect(s.Poke("a", 0xFE)).To(Succeed())

		a, err := s.Peek("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(uint64(0)))
	})

	It("reports UnknownSignal as an error for an unknown poke", func() {
		err := s.Poke("nope", 1)
		Expect(err).To(HaveOccurred())

		var d diag.Diagnostic
		Expect(errors.As(err, &d)).To(BeTrue())
		Expect(d.Code).To(Equal(diag.UnknownSignal))
	})

	It("reports UnknownSignal and returns the sentinel zero for an unknown peek", func() {
		value, err := s.Peek("nope")
		Expect(err).To(HaveOccurred())
		Expect(value).To(Equal(uint64(0)))

		var d diag.Diagnostic
		Expect(errors.As(err, &d)).To(BeTrue())
		Expect(d.Code).To(Equal(diag.UnknownSignal))
	})

	It("clamps a negative step count to zero rather than panicking", func() {
		s.Reset()
		Expect(s.Poke("a", 1)).To(Succeed())
		Expect(s.Poke("b", 0)).To(Succeed())

		// The truth table says a=1,b=0 settles to sum=1 after a real step;
		// Step(-3) must run zero cycles, so sum stays at its post-Reset
		// value of 0 rather than advancing.
		Expect(func() { s.Step(-3) }).NotTo(Panic())

		sum, err := s.Peek("sum")
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(uint64(0)))
	})
})

var _ = Describe("ripple8", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = buildSimulator(ripple8Src, "ripple8")
	})

	It("computes an 8-bit sum with carry propagation settling after enough steps", func() {
		s.Reset()
		Expect(s.Poke("a", 0xFF)).To(Succeed())
		Expect(s.Poke("b", 0x01)).To(Succeed())
		Expect(s.Poke("cin", 0)).To(Succeed())

		// The carry chain's combinational depth grows with the bit width, so
		// settling the full ripple needs more cycles than a single
		// full_adder does; a generous margin avoids coupling this test to
		// the exact gate-level depth of the flattened circuit.
		s.Step(40)

		sum, err := s.Peek("sum")
		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(uint64(0x00)))

		cout, err := s.Peek("cout")
		Expect(err).NotTo(HaveOccurred())
		Expect(cout).To(Equal(uint64(1)))
	})
})

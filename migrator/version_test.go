// Copyright (c) 2023 IndyKite
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migrator_test

import (
	"github.com/sqlschema/migrate/migrator"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Version", func() {
	DescribeTable("parses valid decimal version text",
		func(text string) {
			_, err := migrator.ParseVersion(text)
			Expect(err).To(Succeed())
		},
		Entry("integer", "1"),
		Entry("decimal", "0.01"),
		Entry("zero", "0"),
		Entry("zero with fraction", "0.00"),
	)

	It("rejects non-numeric text", func() {
		_, err := migrator.ParseVersion("abc")
		var badErr *migrator.BadVersionSyntaxError
		Expect(err).To(BeAssignableToTypeOf(badErr))
	})

	It("rejects a negative number", func() {
		_, err := migrator.ParseVersion("-1")
		Expect(err).To(HaveOccurred())
	})

	It("orders purely by numeric value", func() {
		a, err := migrator.ParseVersion("0.02")
		Expect(err).To(Succeed())
		b, err := migrator.ParseVersion("0.10")
		Expect(err).To(Succeed())
		Expect(a.Less(b)).To(BeTrue())
		Expect(a.Compare(b)).To(Equal(-1))
	})

	It("treats 0 and 0.00 as equal and both zero", func() {
		a, err := migrator.ParseVersion("0")
		Expect(err).To(Succeed())
		b, err := migrator.ParseVersion("0.00")
		Expect(err).To(Succeed())
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.IsZero()).To(BeTrue())
		Expect(b.IsZero()).To(BeTrue())
	})

	It("preserves the original text form for display", func() {
		ver, err := migrator.ParseVersion("0.010")
		Expect(err).To(Succeed())
		Expect(ver.String()).To(Equal("0.010"))
	})

	It("implements pflag.Value for use as a CLI flag", func() {
		var ver migrator.Version
		Expect(ver.Set("0.02")).To(Succeed())
		Expect(ver.String()).To(Equal("0.02"))
		Expect(ver.Type()).To(Equal("version"))
	})

	It("marshals to and from its canonical JSON string form", func() {
		ver, err := migrator.ParseVersion("0.02")
		Expect(err).To(Succeed())

		data, err := ver.MarshalJSON()
		Expect(err).To(Succeed())
		Expect(string(data)).To(Equal(`"0.02"`))

		var roundTripped migrator.Version
		Expect(roundTripped.UnmarshalJSON(data)).To(Succeed())
		Expect(roundTripped.Equal(ver)).To(BeTrue())
	})
})

package mdns

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConstructionError", func() {
	It("includes the operation and underlying error in its message", func() {
		underlying := errors.New("address already in use")
		err := &ConstructionError{Op: "join IPv4 multicast group", Err: underlying}

		Expect(err.Error()).To(ContainSubstring("join IPv4 multicast group"))
		Expect(err.Error()).To(ContainSubstring("address already in use"))
	})

	It("unwraps to the underlying error", func() {
		underlying := errors.New("boom")
		err := &ConstructionError{Op: "open IPv4 query socket", Err: underlying}

		Expect(errors.Unwrap(err)).To(Equal(underlying))
		Expect(errors.Is(err, underlying)).To(BeTrue())
	})
})

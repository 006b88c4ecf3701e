package mdns_test

import (
	"time"

	"github.com/meilisearch/madness/dnsmsg"
	"github.com/meilisearch/madness/mdns"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	var engine *mdns.Engine

	BeforeEach(func() {
		var err error
		engine, err = mdns.New(true)
		if err != nil {
			Skip("multicast sockets are unavailable in this environment: " + err.Error())
		}
	})

	AfterEach(func() {
		if engine != nil {
			engine.Close()
		}
	})

	It("register/unregister are idempotent", func() {
		engine.Register("_myservice._tcp.local")
		engine.Register("_myservice._tcp.local")
		engine.Unregister("_myservice._tcp.local")
		engine.Unregister("_myservice._tcp.local")
	})

	It("surfaces a registered name's own query via multicast loopback", func() {
		engine.Register("_myservice._tcp.local")

		out, err := dnsmsg.NewBuilder(55).
			AddQuestion(dnsmsg.Question{
				Name:  "_myservice._tcp.local",
				Type:  dnsmsg.TypePTR,
				Class: dnsmsg.ClassIN,
			}).
			Build()
		Expect(err).NotTo(HaveOccurred())

		engine.EnqueueResponse(out)

		done := make(chan mdns.Event, 1)
		errCh := make(chan error, 1)
		go func() {
			ev, err := engine.Next()
			if err != nil {
				errCh <- err
				return
			}
			done <- ev
		}()

		select {
		case ev := <-done:
			Expect(ev.Kind).To(Equal(mdns.EventQuery))
			Expect(ev.Queries).To(HaveLen(1))
			Expect(ev.Queries[0].Name).To(Equal("_myservice._tcp.local"))
		case err := <-errCh:
			Expect(err).NotTo(HaveOccurred())
		case <-time.After(5 * time.Second):
			Fail("timed out waiting for loopback query")
		}
	})

	It("keeps Next running without error while a discovery query is scheduled", func() {
		sub := engine.Discover("_myservice._tcp.local", 20*time.Millisecond)
		defer sub.Cancel()

		// Draining happens inside Next, so at least one iteration must
		// run for the scheduled query to reach the wire. We only assert
		// that Next does not error out while doing so.
		resultCh := make(chan error, 1)
		go func() {
			_, err := engine.Next()
			resultCh <- err
		}()

		select {
		case err := <-resultCh:
			Expect(err).NotTo(HaveOccurred())
		case <-time.After(2 * time.Second):
			// No inbound packet arrived, which is fine: this test only
			// exercises that scheduling a discovery query doesn't wedge
			// or error the engine.
		}
	})
})

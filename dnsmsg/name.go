package dnsmsg

import (
	"fmt"
	"strings"
)

// MetaQueryName is the well-known DNS-SD service enumeration name.
//
// See https://tools.ietf.org/html/rfc6763#section-9.
const MetaQueryName = "_services._dns-sd._udp.local"

// maxLabelLength is the largest a single DNS label may be (the length octet
// is 6 bits of the 2-bit-tag/6-bit-length compression scheme, so 63 is the
// largest length that can never be mistaken for a compression pointer).
const maxLabelLength = 63

// maxNameLength is the largest an encoded name may be, label lengths and
// terminating zero byte included.
const maxNameLength = 255

// validateLabel panics if s is not usable as a single DNS label: labels must
// be 1-63 bytes of ASCII and must not contain a dot (a dot is the separator
// between labels in the dotted form, never label content here).
//
// This is a precondition violation, not a runtime error: per spec §4.1,
// callers that hand us malformed names have a programming error.
func validateLabel(s string) {
	if s == "" {
		panic("dnsmsg: label must not be empty")
	}

	if len(s) > maxLabelLength {
		panic(fmt.Sprintf("dnsmsg: label %q exceeds %d bytes", s, maxLabelLength))
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			panic(fmt.Sprintf("dnsmsg: label %q contains a dot", s))
		}
		if s[i] > 0x7f {
			panic(fmt.Sprintf("dnsmsg: label %q is not ASCII", s))
		}
	}
}

// validateName panics if name is not a well-formed dotted DNS name: every
// label must satisfy validateLabel, and the fully encoded form (labels plus
// length octets plus the terminating zero byte) must not exceed 255 bytes.
func validateName(name string) []string {
	labels := strings.Split(name, ".")

	total := 1 // terminating zero byte
	for _, l := range labels {
		validateLabel(l)
		total += len(l) + 1
	}

	if total > maxNameLength {
		panic(fmt.Sprintf("dnsmsg: name %q exceeds %d bytes once encoded", name, maxNameLength))
	}

	return labels
}

// appendName writes name in its uncompressed wire form: a sequence of
// <length><bytes> labels terminated by a single zero byte. It never emits a
// compression pointer, per spec §4.1.
func appendName(out []byte, name string) []byte {
	for _, label := range validateName(name) {
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}

	return append(out, 0)
}

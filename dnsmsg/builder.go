package dnsmsg

// Builder assembles a single DNS/mDNS packet: a header plus an ordered list
// of questions and an ordered list of answers. AddQuestion and AddAnswer
// each grow their list and keep the header's section counts in lock-step;
// Build reads those counts back from the header at assembly time rather
// than trusting a separately maintained tally, so the two can never drift
// apart (spec §4.4).
type Builder struct {
	header    Header
	questions []Question
	answers   []ResourceRecord
}

// NewBuilder returns a Builder for a packet with the given transaction id.
func NewBuilder(id uint16) *Builder {
	return &Builder{header: Header{ID: id}}
}

// Response marks the packet under construction as a response (QR=1) when v
// is true, or a query (QR=0) when v is false.
func (b *Builder) Response(v bool) *Builder {
	b.header.SetQR(v)
	return b
}

// Authoritative sets the AA bit.
func (b *Builder) Authoritative(v bool) *Builder {
	b.header.SetAA(v)
	return b
}

// AddQuestion appends q to the question section.
func (b *Builder) AddQuestion(q Question) *Builder {
	b.questions = append(b.questions, q)
	b.header.QDCount = uint16(len(b.questions))
	return b
}

// AddAnswer appends r to the answer section.
func (b *Builder) AddAnswer(r ResourceRecord) *Builder {
	b.answers = append(b.answers, r)
	b.header.ANCount = uint16(len(b.answers))
	return b
}

// Build assembles the packet's bytes in the order header‖questions‖answers.
// The header's section counts at the time Build is called equal the
// lengths of the question and answer lists.
func (b *Builder) Build() ([]byte, error) {
	out := make([]byte, 0, headerSize+64)
	out = appendHeader(out, b.header)

	for _, q := range b.questions {
		out = appendQuestion(out, q)
	}

	for _, r := range b.answers {
		var err error
		out, err = appendRecord(out, r)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

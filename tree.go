// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

// StyleTreeBuilder implements the "tree-style" variant of the Style
// Resolver input described in spec §4.2: spans form a stack, pushing a
// style appends it to an active set with a monotonically increasing
// sequence number, and popping removes it. Flatten produces the same
// ranged []Span that ResolveStyles expects, with application order equal
// to push sequence — this guarantees the tree and ranged forms resolve
// identically.
type StyleTreeBuilder struct {
	seq     int
	open    []openSpan
	flatten []Span
}

type openSpan struct {
	handle int
	start  int
	style  PartialStyle
	seq    int
}

// Handle identifies a pushed-but-not-yet-popped span.
type Handle int

// NewStyleTreeBuilder returns an empty tree builder.
func NewStyleTreeBuilder() *StyleTreeBuilder {
	return &StyleTreeBuilder{}
}

// Push opens a new style span at byte offset at, returning a Handle that
// must later be passed to Pop with the span's end offset.
func (b *StyleTreeBuilder) Push(at int, style PartialStyle) Handle {
	h := b.seq
	b.open = append(b.open, openSpan{handle: h, start: at, style: style, seq: b.seq})
	b.seq++
	return Handle(h)
}

// Pop closes the span identified by h at byte offset at and records it as
// a flattened Span. Popping out of stack order is permitted: the core
// guarantee is only that every pushed span closes exactly once with a
// sequence number reflecting push order.
func (b *StyleTreeBuilder) Pop(h Handle, at int) {
	for i := range b.open {
		if b.open[i].handle == int(h) {
			o := b.open[i]
			b.flatten = append(b.flatten, Span{
				Range: ByteRange{Start: o.start, End: at},
				Style: o.style,
				order: o.seq,
			})
			b.open = append(b.open[:i], b.open[i+1:]...)
			return
		}
	}
}

// Flatten closes any spans still open at textLen and returns the
// equivalent ranged []Span input to ResolveStyles. Each span carries its
// push sequence number as its application order, which is what the
// tree/ranged equivalence guarantee rests on; the slice itself lists
// popped spans in pop order, followed by the spans closed here.
func (b *StyleTreeBuilder) Flatten(textLen int) []Span {
	for _, o := range b.open {
		b.flatten = append(b.flatten, Span{
			Range: ByteRange{Start: o.start, End: textLen},
			Style: o.style,
			order: o.seq,
		})
	}
	b.open = nil
	out := make([]Span, len(b.flatten))
	copy(out, b.flatten)
	return out
}

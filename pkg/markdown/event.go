package markdown

import "iter"

// Kind identifies the type of an [Event].
type Kind int

const (
	HeadingStart Kind = iota
	Text
	ListStart
	ListEnd
	ItemStart
	ItemEnd
)

var kindNames = [...]string{
	HeadingStart: "heading-start",
	Text:         "text",
	ListStart:    "list-start",
	ListEnd:      "list-end",
	ItemStart:    "item-start",
	ItemEnd:      "item-end",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one element of the document event stream. Text is only set for
// events of kind [Text].
type Event struct {
	Kind Kind
	Text string
}

// Parser turns markdown source into an ordered event stream.
// Implementations should produce events lazily so that consumers can stop
// early.
type Parser interface {
	Events(source []byte) iter.Seq[Event]
}

package markdown

import (
	"iter"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Goldmark is a [Parser] backed by a goldmark CommonMark parser with the
// GitHub Flavored Markdown extensions enabled.
//
// Text is decoded: backslash escapes are removed and entity references are
// resolved. Inline code and raw HTML produce no text. Autolinks produce
// their label. Soft and hard line breaks produce a single space.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a Goldmark parser.
func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Events parses source and yields its events in document order.
func (g *Goldmark) Events(source []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		doc := g.md.Parser().Parse(text.NewReader(source))
		_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			for _, ev := range translate(n, entering, source) {
				if !yield(ev) {
					return ast.WalkStop, nil
				}
			}
			if entering && skipChildren(n) {
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		})
	}
}

func skipChildren(n ast.Node) bool {
	switch n.(type) {
	case *ast.CodeSpan, *ast.RawHTML, *ast.HTMLBlock, *ast.AutoLink:
		return true
	}
	return false
}

func translate(n ast.Node, entering bool, source []byte) []Event {
	switch n := n.(type) {
	case *ast.Heading:
		if entering {
			return []Event{{Kind: HeadingStart}}
		}
	case *ast.List:
		if entering {
			return []Event{{Kind: ListStart}}
		}
		return []Event{{Kind: ListEnd}}
	case *ast.ListItem:
		if entering {
			return []Event{{Kind: ItemStart}}
		}
		return []Event{{Kind: ItemEnd}}
	case *ast.Text:
		if !entering {
			return nil
		}
		evs := []Event{{Kind: Text, Text: decodeText(n.Segment.Value(source))}}
		if n.SoftLineBreak() || n.HardLineBreak() {
			evs = append(evs, Event{Kind: Text, Text: " "})
		}
		return evs
	case *ast.String:
		if entering {
			return []Event{{Kind: Text, Text: string(n.Value)}}
		}
	case *ast.AutoLink:
		if entering {
			return []Event{{Kind: Text, Text: string(n.Label(source))}}
		}
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			return linesText(n, source)
		}
	}
	return nil
}

// decodeText resolves escapes and entities the way goldmark's HTML renderer
// does for link destinations.
func decodeText(raw []byte) string {
	v := util.UnescapePunctuations(raw)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}

func linesText(n ast.Node, source []byte) []Event {
	lines := n.Lines()
	evs := make([]Event, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		evs = append(evs, Event{Kind: Text, Text: string(seg.Value(source))})
	}
	return evs
}

package markdown

import (
	"iter"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plugindex/pkg/plugin"
)

var repoPattern = regexp.MustCompile(`([^/\s]+)/([^/\s)]+)`)

// Extractor pulls repository references out of markdown list items.
//
// The zero value uses [NewGoldmark] and discards logging.
type Extractor struct {
	Parser Parser
	Logger *log.Logger
}

// NewExtractor returns an Extractor using the goldmark parser.
func NewExtractor(logger *log.Logger) *Extractor {
	return &Extractor{Parser: NewGoldmark(), Logger: logger}
}

// Scan yields every reference found in source, in document order.
// The same reference may be yielded more than once.
func (e *Extractor) Scan(source []byte) iter.Seq[plugin.Reference] {
	parser := e.Parser
	if parser == nil {
		parser = NewGoldmark()
	}
	return func(yield func(plugin.Reference) bool) {
		var (
			heading        string
			headingPending = true
			inList         bool
			collecting     bool
			item           strings.Builder
		)
		for ev := range parser.Events(source) {
			switch ev.Kind {
			case HeadingStart:
				headingPending = true
			case Text:
				if headingPending {
					heading = ev.Text
					headingPending = false
				} else if collecting {
					item.WriteString(ev.Text)
				}
			case ListStart:
				inList = true
			case ListEnd:
				inList = false
			case ItemStart:
				if inList {
					collecting = true
					item.Reset()
				}
			case ItemEnd:
				if !collecting {
					continue
				}
				collecting = false
				ref, ok := matchReference(item.String())
				if !ok {
					continue
				}
				e.debug("found reference", "ref", ref, "section", heading)
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// Extract returns the distinct references found in source, in order of
// first appearance.
func (e *Extractor) Extract(source []byte) *plugin.ReferenceSet {
	set := plugin.NewReferenceSet()
	for ref := range e.Scan(source) {
		set.Add(ref)
	}
	return set
}

func matchReference(s string) (plugin.Reference, bool) {
	if strings.TrimSpace(s) == "" {
		return plugin.Reference{}, false
	}
	m := repoPattern.FindStringSubmatch(s)
	if m == nil {
		return plugin.Reference{}, false
	}
	return plugin.Reference{Owner: m[1], Name: m[2]}, true
}

func (e *Extractor) debug(msg string, kv ...any) {
	if e.Logger != nil {
		e.Logger.Debug(msg, kv...)
	}
}

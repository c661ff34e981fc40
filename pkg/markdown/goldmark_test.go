package markdown

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(evs []Event) []Kind {
	out := make([]Kind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestGoldmarkEvents(t *testing.T) {
	evs := slices.Collect(NewGoldmark().Events([]byte("# Title\n\n- one\n- two\n")))

	assert.Equal(t, []Kind{
		HeadingStart, Text,
		ListStart,
		ItemStart, Text, ItemEnd,
		ItemStart, Text, ItemEnd,
		ListEnd,
	}, kinds(evs))
	assert.Equal(t, "Title", evs[1].Text)
	assert.Equal(t, "one", evs[4].Text)
	assert.Equal(t, "two", evs[7].Text)
}

func TestGoldmarkSkipsRawHTML(t *testing.T) {
	evs := slices.Collect(NewGoldmark().Events([]byte("- a <span>b/c</span> d\n")))
	for _, ev := range evs {
		if ev.Kind == Text {
			assert.NotContains(t, ev.Text, "span")
		}
	}
}

func TestGoldmarkDecodesText(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"escaped punctuation", `- foo\_x/bar\*y`, "foo_x/bar*y"},
		{"named entity", "- a&amp;b &lt;c&gt;", "a&b <c>"},
		{"numeric entity", "- x&#47;y &#x41;", "x/y A"},
		{"escaped backslash", `- a\\b`, `a\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var text string
			for ev := range NewGoldmark().Events([]byte(tt.doc)) {
				if ev.Kind == Text {
					text += ev.Text
				}
			}
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestGoldmarkAutolinkLabel(t *testing.T) {
	evs := slices.Collect(NewGoldmark().Events([]byte("- <https://example.com/x>\n")))
	var texts []string
	for _, ev := range evs {
		if ev.Kind == Text {
			texts = append(texts, ev.Text)
		}
	}
	assert.Equal(t, []string{"https://example.com/x"}, texts)
}

func TestGoldmarkStopsEarly(t *testing.T) {
	var n int
	for range NewGoldmark().Events([]byte("- a\n- b\n- c\n")) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "item-end", ItemEnd.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

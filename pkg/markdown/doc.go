// Package markdown extracts GitHub repository references from the list
// items of a markdown document.
//
// Parsing is split in two layers. A [Parser] turns markdown source into a
// flat stream of [Event] values (headings, lists, items and text), and an
// [Extractor] runs a small state machine over that stream. [Goldmark] is the
// default Parser, backed by github.com/yuin/goldmark with GitHub Flavored
// Markdown enabled.
//
// # State machine
//
// The extractor tracks whether it is inside a list and whether it is
// collecting the text of a list item. On each item end the collected text is
// matched against the pattern owner/name, and the first match becomes a
// [plugin.Reference]. Items without a match are skipped. Text outside of list
// items never produces references.
//
// The first text event after a heading start (or at the start of the
// document) is taken as the section label. It is logged for context and
// does not contribute to item text.
package markdown

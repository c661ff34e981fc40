// Package indexer runs the two index operations: regenerating the whole
// index from the source README ([Runner.Index]) and adding a single plugin
// ([Runner.Add]).
//
// A Runner owns no global state. The GitHub client, the markdown extractor
// and the output sink are injected, which keeps every run reproducible in
// tests with fakes.
package indexer

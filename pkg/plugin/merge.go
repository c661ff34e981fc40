package plugin

// Merge reconciles a freshly scraped reference set with the records of an
// existing index.
//
// Every existing record is downgraded to a Reference. References the scrape
// did not produce are returned as preserved and appended to a copy of
// scraped, so manually added entries survive a README that no longer lists
// them. scraped itself is not modified.
func Merge(scraped *ReferenceSet, existing []Record) (merged *ReferenceSet, preserved []Reference) {
	merged = scraped.Clone()
	for _, rec := range existing {
		ref := rec.Reference()
		if scraped.Contains(ref) {
			continue
		}
		if merged.Add(ref) {
			preserved = append(preserved, ref)
		}
	}
	return merged, preserved
}

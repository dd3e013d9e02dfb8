package ports

// JournalMetrics receives counters from the journal service.
type JournalMetrics interface {
	// RecordsSkipped counts trade records dropped while loading a journal.
	RecordsSkipped(n int)
}

package telemetry

// Batcher exposes the span's log batcher for tests.
func (s *OTelSpan) Batcher() *BatchProcessor {
	return s.batcher
}

package metrics

import "time"

type NoopSink struct{}

var _ Sink = NoopSink{}

func (NoopSink) ListingsLoaded(time.Duration, int, error) {}
func (NoopSink) CacheLookup(bool)                         {}
func (NoopSink) InteractionCompleted(string, string)      {}
func (NoopSink) EventPublished(string, error)             {}

package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSimulation(_ *SimulationEvent) error { return nil }
func (n *NoopRecorder) RecordImport(_ *ImportEvent) error         { return nil }
func (n *NoopRecorder) RecordStateChange(_ *StateChange) error    { return nil }
func (n *NoopRecorder) Close() error                              { return nil }

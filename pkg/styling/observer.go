package styling

// Observer receives engine events, e.g. for metrics. Implementations must be
// safe for concurrent use and must not call back into the engine.
type Observer interface {
	// RecordComputed is called for every declaration resolved by
	// ComputeRecords; created is false on a cache hit.
	RecordComputed(rec *RuleRecord, created bool)
	// RecordInserted is called after a sink accepted a rule
	RecordInserted(rec *RuleRecord, mode Mode)
	// RecordInsertFailed is called when a sink rejected a rule
	RecordInsertFailed(rec *RuleRecord, err error)
}

type nopObserver struct{}

func (nopObserver) RecordComputed(*RuleRecord, bool) {}
func (nopObserver) RecordInserted(*RuleRecord, Mode) {}
func (nopObserver) RecordInsertFailed(*RuleRecord, error) {}

// Observers fans events out to several observers
type Observers []Observer

func (o Observers) RecordComputed(rec *RuleRecord, created bool) {
	for _, ob := range o {
		ob.RecordComputed(rec, created)
	}
}

func (o Observers) RecordInserted(rec *RuleRecord, mode Mode) {
	for _, ob := range o {
		ob.RecordInserted(rec, mode)
	}
}

func (o Observers) RecordInsertFailed(rec *RuleRecord, err error) {
	for _, ob := range o {
		ob.RecordInsertFailed(rec, err)
	}
}

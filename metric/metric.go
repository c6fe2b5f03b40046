// Package metric publishes real-time cycle counters with expvar.
package metric

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/eq/signal"
)

const componentsLabel = "eq.components"

const (
	// SessionCounter counts started monitoring sessions.
	SessionCounter = "Sessions"
	// CycleCounter counts processed blocks.
	CycleCounter = "Cycles"
	// SampleCounter counts processed samples.
	SampleCounter = "Samples"
	// LatencyCounter holds the processing time of the last block.
	LatencyCounter = "Latency"
	// DurationCounter holds the duration of processed signal.
	DurationCounter = "Duration"
	// FaultCounter counts transport faults and recovered panics.
	FaultCounter = "Faults"
	// ReconfigCounter counts applied configuration changes.
	ReconfigCounter = "Reconfigs"
	// RejectCounter counts rejected configuration snapshots.
	RejectCounter = "Rejects"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		SessionCounter,
		CycleCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		FaultCounter,
		ReconfigCounter,
		RejectCounter,
	}
)

// Get metrics values for provided component.
func Get(component string) map[string]string {
	return getCounters(component)
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(component string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(component, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure. It postpones capture until a session is
// actually running.
type ResetFunc func() *Measure

// Meter registers component counters and returns a ResetFunc that starts
// a new measured session.
func Meter(component string, sampleRate float64) ResetFunc {
	metric := components.get(component)
	return func() *Measure {
		metric.sessions.Add(1)
		return &Measure{
			metric:     metric,
			sampleRate: sampleRate,
		}
	}
}

// Measure captures counters of a single session. Its methods are called
// from one goroutine only.
type Measure struct {
	metric         metric
	sampleRate     float64
	bufferSize     int64
	bufferDuration time.Duration
}

// Cycle captures a processed block of size samples that took elapsed.
func (m *Measure) Cycle(size int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.metric.latency.set(elapsed)
	m.metric.cycles.Add(1)
	m.metric.samples.Add(size)
	// recalculate buffer duration only when buffer size has changed
	if m.bufferSize != size {
		m.bufferSize = size
		m.bufferDuration = signal.DurationOf(m.sampleRate, size)
	}
	m.metric.duration.add(m.bufferDuration)
}

// Fault counts a transport fault or recovered failure.
func (m *Measure) Fault() {
	if m == nil {
		return
	}
	m.metric.faults.Add(1)
}

// Reconfig counts applied configuration change.
func (m *Measure) Reconfig() {
	if m == nil {
		return
	}
	m.metric.reconfigs.Add(1)
}

// Reject counts rejected configuration.
func (m *Measure) Reject() {
	if m == nil {
		return
	}
	m.metric.rejects.Add(1)
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(component string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[component]; ok {
		// return existing metric if available
		return metric
	}
	metric := newMetric(component)
	m.m[component] = metric
	return metric
}

type metric struct {
	sessions  *expvar.Int
	cycles    *expvar.Int
	samples   *expvar.Int
	faults    *expvar.Int
	reconfigs *expvar.Int
	rejects   *expvar.Int
	latency   *duration
	duration  *duration
}

func newMetric(component string) metric {
	m := metric{
		sessions:  expvar.NewInt(key(component, SessionCounter)),
		cycles:    expvar.NewInt(key(component, CycleCounter)),
		samples:   expvar.NewInt(key(component, SampleCounter)),
		faults:    expvar.NewInt(key(component, FaultCounter)),
		reconfigs: expvar.NewInt(key(component, ReconfigCounter)),
		rejects:   expvar.NewInt(key(component, RejectCounter)),
		latency:   &duration{},
		duration:  &duration{},
	}
	expvar.Publish(key(component, LatencyCounter), m.latency)
	expvar.Publish(key(component, DurationCounter), m.duration)
	return m
}

func key(component, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, component, counter)
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}

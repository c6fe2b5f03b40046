package monitor

import "strings"

// Status reports transport conditions of a cycle.
type Status uint32

// Transport status flags.
const (
	InputUnderflow Status = 1 << iota
	InputOverflow
	OutputUnderflow
	OutputOverflow
)

var statusNames = []struct {
	flag Status
	name string
}{
	{InputUnderflow, "input underflow"},
	{InputOverflow, "input overflow"},
	{OutputUnderflow, "output underflow"},
	{OutputOverflow, "output overflow"},
}

func (s Status) String() string {
	if s == 0 {
		return "ok"
	}
	var names []string
	for _, n := range statusNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Cycle processes one captured block into out. Transports call it from a
// single goroutine or thread, one block at a time.
type Cycle func(in, out []float32, status Status)

// Transport captures and renders fixed-size mono blocks.
//
// Start begins periodic invocation of cycle. Stop must not return until
// cycle is no longer running and will not be invoked again.
type Transport interface {
	Start(sampleRate float64, blockSize int, cycle Cycle) error
	Stop() error
}

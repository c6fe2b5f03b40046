package monitor

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"pipelined.dev/eq"
	"pipelined.dev/eq/dynamics"
	"pipelined.dev/eq/metric"
	"pipelined.dev/eq/signal"
)

// session is the state of one monitoring run. Everything but stop and
// done is owned by the cycle until done is closed.
type session struct {
	id         xid.ID
	chain      *eq.Chain
	compressor dynamics.Compressor
	source     Source
	block      []float64
	recording  [][]float64
	blocks     int
	measure    *metric.Measure
	logger     logrus.FieldLogger

	// last settings the chain refused, to log them only once
	rejected    eq.Settings
	hasRejected bool

	stop     atomic.Bool
	done     chan struct{}
	finished bool
}

// cycle is invoked by the transport for every block.
func (s *session) cycle(in, out []float32, status Status) {
	if s.finished {
		silence(out)
		return
	}
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.measure.Fault()
			s.logger.WithFields(logrus.Fields{
				"block": s.blocks,
				"panic": fmt.Sprint(r),
			}).Error("cycle failed, rendering silence")
			silence(out)
			s.record(make([]float64, len(in)))
		}
		if s.stop.Load() {
			s.finished = true
			close(s.done)
		}
	}()

	if status != 0 {
		s.measure.Fault()
		s.logger.WithFields(logrus.Fields{
			"block":  s.blocks,
			"status": status.String(),
		}).Warn("transport fault")
	}
	s.reconfigure()

	if len(in) > cap(s.block) {
		s.block = make([]float64, len(in))
	}
	block := s.block[:len(in)]
	signal.Float64(block, in)
	s.chain.Process(block)
	s.compressor.Process(block)
	n := signal.Float32(out, block)
	silence(out[n:])

	s.record(append([]float64(nil), block...))
	s.measure.Cycle(int64(len(block)), time.Since(started))
}

func (s *session) record(block []float64) {
	s.recording = append(s.recording, block)
	s.blocks++
}

// reconfigure applies a new snapshot when it differs from the active
// configuration. Rejected snapshots keep the chain as it is.
func (s *session) reconfigure() {
	if s.source == nil {
		return
	}
	settings, ok := s.source.Settings()
	if !ok || settings == s.chain.Settings() {
		return
	}
	if s.hasRejected && settings == s.rejected {
		return
	}
	if err := s.chain.Configure(settings); err != nil {
		s.rejected, s.hasRejected = settings, true
		s.measure.Reject()
		s.logger.WithError(err).WithField("block", s.blocks).
			Warn("settings rejected, keeping previous configuration")
		return
	}
	s.hasRejected = false
	s.measure.Reconfig()
	s.logger.WithFields(logrus.Fields{
		"block":    s.blocks,
		"settings": settings.String(),
	}).Debug("reconfigured")
}

func silence(out []float32) {
	for i := range out {
		out[i] = 0
	}
}

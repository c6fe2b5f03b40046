package eq

const (
	// DefaultTaps is the length of the low-pass and high-pass FIR stages.
	DefaultTaps = 101
	// DefaultBlockSize is the number of samples Apply processes at once.
	DefaultBlockSize = 4096
)

type config struct {
	taps      int
	blockSize int
}

// Option configures chains and whole-signal processing.
type Option func(*config)

// WithTaps sets the FIR length. High-pass design requires an odd value.
func WithTaps(taps int) Option {
	return func(c *config) {
		c.taps = taps
	}
}

// WithBlockSize sets the block size used by Apply and the capacity the
// chain preallocates for its FIR scratch buffers.
func WithBlockSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.blockSize = size
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		taps:      DefaultTaps,
		blockSize: DefaultBlockSize,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

/*
Package eq implements a mono equalizer chain that produces the same
output whether a signal is filtered at once or streamed block by block.

Chain

The chain runs every block through five stages in a fixed order:

    low-pass FIR -> high-pass FIR -> peaking band 1 -> band 2 -> band 3

Each stage owns its delay line. FIR stages keep the last taps-1 input
samples, peaking stages keep the two-sample state of a transposed direct
form II biquad. The state persists between Process calls, so splitting a
signal into blocks of any size does not change the result:

    c, err := eq.NewChain(44100, eq.DefaultSettings())
    if err != nil {
        return err
    }
    for _, block := range blocks {
        c.Process(block)
    }

Reconfiguration

Configure recomputes the coefficients of all stages. A stage keeps its
delay line when the length of its coefficients is unchanged, so moving a
band or changing its gain while streaming does not produce a click.
Settings that fail validation are rejected and the previous configuration
stays active.

Whole-signal processing

Apply filters a complete signal with a fresh chain and normalizes the
result to a peak of signal.Headroom. Streaming callers never normalize per
block; the monitor package places a soft-knee compressor after the chain
instead.
*/
package eq

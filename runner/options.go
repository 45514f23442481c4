package runner

import "time"

// Options contains configuration for run execution.
type Options struct {
	// MaxTurns limits the number of model calls in a single run.
	// Set to 0 for unlimited (not recommended). Default is 10.
	MaxTurns int

	// ToolTimeout sets the timeout for each individual tool handler.
	// A value of 0 means no per-handler timeout. Default is 30 seconds.
	ToolTimeout time.Duration

	// ParallelToolCalls enables concurrent execution when the model requests
	// multiple tool calls in one turn. Results are still emitted in the
	// model's request order. Default is true.
	ParallelToolCalls bool
}

// Option is a functional option for configuring a Runner.
type Option func(*Options)

// WithMaxTurns sets the maximum number of model calls per run.
// Default is 10. Set to 0 for unlimited (not recommended).
func WithMaxTurns(n int) Option {
	return func(o *Options) {
		o.MaxTurns = n
	}
}

// WithToolTimeout sets the timeout for individual tool handlers.
// Default is 30 seconds. Set to 0 to disable.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ToolTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
// Default is true.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

func applyOptions(opts ...Option) Options {
	options := Options{
		MaxTurns:          10,
		ToolTimeout:       30 * time.Second,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

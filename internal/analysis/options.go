package analysis

type options struct {
	capBeforeSort bool
}

// Option configures a transform.
type Option func(*options)

// WithCapBeforeSort applies the ranking row cap before sorting by duration,
// reproducing the historical result order: the cap selects whatever rows the
// engine returns first, and only that subset is sorted. The default is the
// corrected order (sort, then cap), which returns the true longest trips.
func WithCapBeforeSort() Option {
	return func(o *options) { o.capBeforeSort = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package analysis

// Options controls aggregation and signal ranking.
type Options struct {
	// OutlierThreshold flags values with |z| strictly above it.
	OutlierThreshold float64
	// MinSampleSize excludes numeric columns with fewer present values from profiling.
	MinSampleSize int
	// MinGroupSupport is the smallest group that may produce a GROUP_GAP signal.
	MinGroupSupport int
	// KeyColumn identifies rows in the outlier table; the first column when empty.
	KeyColumn string
	// Label maps a raw category value to its display form. Nil keeps values as-is.
	Label func(column, value string) string
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		OutlierThreshold: 2.5,
		MinSampleSize:    5,
		MinGroupSupport:  5,
	}
}

func (o Options) label(column, value string) string {
	if o.Label == nil {
		return value
	}
	return o.Label(column, value)
}

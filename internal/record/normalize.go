package record

// Normalizer turns a parsed record into its flattened form: retain paths
// first, in the order given, then Flatten. A Normalizer is immutable, so one
// value can drive both the header pass and the body pass and yield the same
// column names for the same record.
type Normalizer struct {
	retainPaths []string
	opts        FlattenOptions
}

// NewNormalizer returns a Normalizer for the given retain paths and options.
func NewNormalizer(retainPaths []string, opts FlattenOptions) Normalizer {
	paths := make([]string, len(retainPaths))
	copy(paths, retainPaths)
	return Normalizer{retainPaths: paths, opts: opts}
}

// Normalize retains and flattens rec. rec itself is not modified.
func (n Normalizer) Normalize(rec *Object) *Flat {
	if len(n.retainPaths) > 0 {
		rec = RetainAll(rec, n.retainPaths)
	}
	return Flatten(rec, n.opts)
}

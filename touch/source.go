package touch

// Source acquires a single raw sample, e.g. an analog read.
type Source interface {
	Sample() (int, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() (int, error)

// Sample implements Source.
func (f SourceFunc) Sample() (int, error) {
	return f()
}

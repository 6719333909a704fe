package attendance

// Normalizer turns one source's rows into canonical events. Per-row failures
// are counted in Dropped and described in Problems; only a source-wide problem
// is returned as an error, and that error is a *SourceFormatError.
type Normalizer interface {
	Kind() SourceKind
	Normalize(src RawSource) (Normalized, error)
}

type Normalized struct {
	Events   []Event
	Dropped  int
	Problems []RowParseError
}

// Drop records a skipped row.
func (n *Normalized) Drop(problem RowParseError) {
	n.Dropped++
	n.Problems = append(n.Problems, problem)
}

package diag

// Summary holds the end-of-build counters. It is the only thing that decides
// the exit status of a build.
type Summary struct {
	Warnings int
	Errors   int
}

// Summarize counts warnings and errors; SevInfo is ignored.
func Summarize(items []Diagnostic) Summary {
	var s Summary
	s.Add(items)
	return s
}

// Add scans another batch of diagnostics into the counters.
func (s *Summary) Add(items []Diagnostic) {
	for i := range items {
		s.count(items[i].Severity)
	}
}

// Merge adds the counters of other.
func (s *Summary) Merge(other Summary) {
	s.Warnings += other.Warnings
	s.Errors += other.Errors
}

// Count returns the counter for sev; SevInfo is always 0.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SevWarning:
		return s.Warnings
	case SevError:
		return s.Errors
	}
	return 0
}

func (s *Summary) count(sev Severity) {
	switch sev {
	case SevWarning:
		s.Warnings++
	case SevError:
		s.Errors++
	}
}

func (s Summary) Failed() bool {
	return s.Errors > 0
}

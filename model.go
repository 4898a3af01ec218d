package repoint

type Outcome int

const (
	Unchanged Outcome = iota
	Updated
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Skipped:
		return "skip (not found)"
	default:
		return "no change"
	}
}

// Result is the outcome for one input path. Path is kept exactly as given.
type Result struct {
	Path         string
	Outcome      Outcome
	Replacements int
}

type Summary struct {
	Results []Result
	DryRun  bool
}

func (s Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

package repoint

// Rewrite replaces old with new in each file of paths, relative to the
// working directory, and returns one result per path in input order.
func Rewrite(old, new string, paths []string) ([]Result, error) {
	pr, err := NewPathResolver()
	if err != nil {
		return nil, err
	}
	return NewRewriter(old, new, nil, pr, nil).Rewrite(paths, nil)
}

// Apply runs a full invocation without printing and returns the summary.
func Apply(config Config) (Summary, error) {
	app, err := NewApp(&config)
	if err != nil {
		return Summary{}, err
	}
	defer app.Close()
	return app.Execute()
}

package repoint

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrNotText = errors.New("file is not valid UTF-8 text")
	ErrNoPaths = errors.New("no paths to process")
)

type Writer interface {
	WriteFile(path string, content []byte, perm os.FileMode) error
}

type osWriter struct{}

func (osWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	return os.WriteFile(path, content, perm)
}

type dryRunWriter struct{}

func (dryRunWriter) WriteFile(string, []byte, os.FileMode) error { return nil }

// Rewriter replaces every literal occurrence of Old with New in each file it
// is given. Files are handled one at a time, in order.
type Rewriter struct {
	Old      string
	New      string
	writer   Writer
	resolver *PathResolver
	logger   hclog.Logger
}

func NewRewriter(old, new string, w Writer, resolver *PathResolver, logger hclog.Logger) *Rewriter {
	if w == nil {
		w = osWriter{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Rewriter{Old: old, New: new, writer: w, resolver: resolver, logger: logger}
}

// Rewrite processes paths in order. On a fatal error the results gathered so
// far are returned along with it; earlier writes are not undone.
func (r *Rewriter) Rewrite(paths []string, progressCb func(int)) ([]Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	results := make([]Result, 0, len(paths))
	for i, p := range paths {
		res, err := r.RewriteFile(p)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	return results, nil
}

func (r *Rewriter) RewriteFile(path string) (Result, error) {
	res := Result{Path: path, Outcome: Unchanged}
	abs := path
	if r.resolver != nil {
		abs = r.resolver.Resolve(path)
	}

	info, err := os.Stat(abs)
	if isNotFound(err) {
		r.logger.Debug("file not found, skipping", "path", path)
		res.Outcome = Skipped
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(content) {
		return res, fmt.Errorf("%s: %w", path, ErrNotText)
	}

	text := string(content)
	// strings.Contains reports true for an empty Old.
	if !strings.Contains(text, r.Old) {
		r.logger.Debug("substring absent", "path", path)
		return res, nil
	}

	res.Replacements = strings.Count(text, r.Old)
	replaced := strings.ReplaceAll(text, r.Old, r.New)
	if err := r.writer.WriteFile(abs, []byte(replaced), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.logger.Debug("rewrote file", "path", path, "replacements", res.Replacements)
	res.Outcome = Updated
	return res, nil
}

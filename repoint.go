package repoint

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
)

type Config struct {
	Old       string
	New       string
	Paths     []string
	Manifests []string
	Clipboard bool
	DryRun    bool
	Nvim      bool
	LogLevel  string
	Stdin     io.Reader
	LogOutput io.Writer
}

type ProgressUpdate func(current, total int)

type App struct {
	cfg              *Config
	logger           hclog.Logger
	sourceProvider   *SourceProvider
	rewriter         *Rewriter
	nvimWriter       *NvimWriter
	progressCallback ProgressUpdate
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

func NewApp(cfg *Config) (*App, error) {
	pr, err := NewPathResolver()
	if err != nil {
		return nil, err
	}

	logOut := cfg.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := NewLogger(cfg.LogLevel, logOut)

	app := &App{
		cfg:            cfg,
		logger:         logger,
		sourceProvider: NewSourceProvider(cfg.Stdin),
	}

	var w Writer = osWriter{}
	switch {
	case cfg.DryRun:
		w = dryRunWriter{}
	case cfg.Nvim:
		nw, err := NewNvimWriter()
		if err != nil {
			return nil, err
		}
		app.nvimWriter = nw
		w = nw
	}

	app.rewriter = NewRewriter(cfg.Old, cfg.New, w, pr, logger.Named("rewriter"))
	return app, nil
}

func (a *App) SetProgressCallback(cb ProgressUpdate) { a.progressCallback = cb }

func (a *App) Close() {
	if a.nvimWriter != nil {
		a.nvimWriter.Close()
	}
}

// Execute runs the rewrite. The returned summary holds every result produced
// before any error.
func (a *App) Execute() (summary Summary, err error) {
	summary.DryRun = a.cfg.DryRun
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	paths, err := a.collectPaths()
	if err != nil {
		return summary, err
	}

	a.logger.Debug("rewriting", "old", a.cfg.Old, "new", a.cfg.New, "files", len(paths))
	total := len(paths)
	summary.Results, err = a.rewriter.Rewrite(paths, func(done int) {
		a.reportProgress(done, total)
	})
	return summary, err
}

func (a *App) collectPaths() ([]string, error) {
	paths, err := a.sourceProvider.ExpandPaths(a.cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to read paths from stdin: %w", err)
	}

	for _, m := range a.cfg.Manifests {
		mp, err := LoadManifest(m)
		if err != nil {
			return nil, err
		}
		paths = append(paths, mp...)
	}

	if a.cfg.Clipboard {
		cp, err := a.sourceProvider.ClipboardPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to read paths from clipboard: %w", err)
		}
		paths = append(paths, cp...)
	}

	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	return paths, nil
}

func (a *App) reportProgress(current, total int) {
	if a.progressCallback != nil {
		a.progressCallback(current, total)
	}
}

package repoint

import (
	"io"
	"strings"

	"github.com/atotto/clipboard"
)

const stdinPath = "-"

type SourceProvider struct {
	stdin         io.Reader
	readClipboard func() (string, error)
}

func NewSourceProvider(stdin io.Reader) *SourceProvider {
	return &SourceProvider{stdin: stdin, readClipboard: clipboard.ReadAll}
}

// ExpandPaths replaces each "-" entry with the paths read from stdin. Stdin is
// consumed once; later "-" entries expand to nothing.
func (sp *SourceProvider) ExpandPaths(paths []string) ([]string, error) {
	var out []string
	consumed := false
	for _, p := range paths {
		if p != stdinPath {
			out = append(out, p)
			continue
		}
		if consumed || sp.stdin == nil {
			continue
		}
		consumed = true

		c, err := io.ReadAll(sp.stdin)
		if err != nil {
			return nil, err
		}
		out = append(out, splitPathList(string(c))...)
	}
	return out, nil
}

func (sp *SourceProvider) ClipboardPaths() ([]string, error) {
	c, err := sp.readClipboard()
	if err != nil {
		return nil, err
	}
	return splitPathList(c), nil
}

func splitPathList(s string) []string {
	var paths []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if p := strings.TrimSpace(line); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

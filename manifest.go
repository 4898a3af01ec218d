package repoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const manifestLang = "paths"

// ParseManifest returns the paths listed in every ```paths fenced block of a
// Markdown document, in document order.
func ParseManifest(source []byte) ([]string, error) {
	var paths []string
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(block.Language(source)) != manifestLang {
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			p := strings.TrimSpace(string(line.Value(source)))
			if p == "" || strings.HasPrefix(p, "#") {
				continue
			}
			paths = append(paths, p)
		}
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return paths, nil
}

// LoadManifest reads a manifest file. Relative entries are joined to the
// manifest's directory so the result can be used from any working directory.
func LoadManifest(path string) ([]string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	entries, err := ParseManifest(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if filepath.IsAbs(e) {
			paths = append(paths, e)
			continue
		}
		paths = append(paths, filepath.Join(dir, e))
	}
	return paths, nil
}

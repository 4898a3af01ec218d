package repoint

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

var (
	ErrNoNvim         = errors.New("no running Neovim found: $NVIM and $NVIM_LISTEN_ADDRESS are unset")
	ErrBufferModified = errors.New("buffer has unsaved changes in Neovim")
)

// writeBufferLua writes a buffer from its own context so the user's windows
// stay where they are.
const writeBufferLua = `local buf = ...
vim.api.nvim_buf_call(buf, function() vim.cmd("silent noautocmd write!") end)`

type nvimClient interface {
	Call(fname string, result interface{}, args ...interface{}) error
	SetBufferLines(buffer nvim.Buffer, start int, end int, strictIndexing bool, replacement [][]byte) error
	ExecLua(code string, result interface{}, args ...interface{}) error
	Close() error
}

// NvimWriter writes through the buffers of a running Neovim so files that are
// open in the editor pick up the new content.
type NvimWriter struct {
	v nvimClient
}

func nvimAddress() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

func NewNvimWriter() (*NvimWriter, error) {
	addr := nvimAddress()
	if addr == "" {
		return nil, ErrNoNvim
	}

	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Neovim at %s: %w", addr, err)
	}
	return &NvimWriter{v: v}, nil
}

func (w *NvimWriter) Close() {
	if w.v != nil {
		w.v.Close()
	}
}

// WriteFile ignores perm; the existing file keeps its mode when Neovim
// writes it. A buffer with unsaved edits is left alone.
func (w *NvimWriter) WriteFile(path string, content []byte, _ os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var bufnr int
	if err := w.v.Call("bufadd", &bufnr, absPath); err != nil {
		return err
	}
	if err := w.v.Call("bufload", nil, bufnr); err != nil {
		return err
	}

	var modified int
	if err := w.v.Call("getbufvar", &modified, bufnr, "&modified"); err != nil {
		return err
	}
	if modified != 0 {
		return fmt.Errorf("%s: %w", path, ErrBufferModified)
	}

	lines, eol := bufferLines(content)
	if err := w.v.SetBufferLines(nvim.Buffer(bufnr), 0, -1, true, lines); err != nil {
		return err
	}

	// Lines carry the raw bytes, including any \r or BOM.
	opts := []struct {
		name  string
		value interface{}
	}{
		{"&fileformat", "unix"},
		{"&bomb", 0},
		{"&fixendofline", boolInt(eol)},
		{"&endofline", boolInt(eol)},
	}
	for _, o := range opts {
		if err := w.v.Call("setbufvar", nil, bufnr, o.name, o.value); err != nil {
			return err
		}
	}

	return w.v.ExecLua(writeBufferLua, nil, bufnr)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// bufferLines splits content the way Neovim stores it: one entry per line and
// no entry for the final newline.
func bufferLines(content []byte) ([][]byte, bool) {
	eol := len(content) > 0 && content[len(content)-1] == '\n'
	if eol {
		content = content[:len(content)-1]
	}
	return bytes.Split(content, []byte("\n")), eol
}

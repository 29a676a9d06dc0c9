package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

type filteredReader struct {
	cmd *exec.Cmd
	r   io.ReadCloser
	src io.Closer
}

func (fr *filteredReader) Read(p []byte) (n int, err error) {
	return fr.r.Read(p)
}

// Close drains what the decompressor has left before waiting for it, so
// a reader stopping early does not kill it with SIGPIPE and corruption
// past that point still shows up as a non-zero exit.
func (fr *filteredReader) Close() error {
	_, drainErr := io.Copy(io.Discard, fr.r)
	var waitErr error
	if err := fr.cmd.Wait(); err != nil {
		waitErr = fmt.Errorf("%s: %w", fr.cmd.Args[0], err)
	}
	return errors.Join(drainErr, waitErr, fr.src.Close())
}

func filterByCommand(r io.ReadCloser, args []string) (io.ReadCloser, error) {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = r
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		r.Close()
		return nil, err
	}
	return &filteredReader{cmd: cmd, r: stdout, src: r}, nil
}

type filterFunc func(r io.ReadCloser) (io.ReadCloser, error)

var fileTypes = map[string]filterFunc{
	".gz": func(r io.ReadCloser) (io.ReadCloser, error) {
		return filterByCommand(r, []string{"gzip", "-cd"})
	},
	".xz": func(r io.ReadCloser) (io.ReadCloser, error) {
		return filterByCommand(r, []string{"xz", "-cd", "-T", "0"})
	},
	".zst": func(r io.ReadCloser) (io.ReadCloser, error) {
		return filterByCommand(r, []string{"zstd", "-cd", "-T0"})
	},
}

// OpenFile opens filename for reading, decompressing it on the fly
// when the extension names a known compression format.
func OpenFile(filename string) (io.ReadCloser, error) {
	return OpenFileWithProgress(filename, nil)
}

type progressReader struct {
	io.Reader
	bar *progressbar.ProgressBar
	f   io.Closer
}

func (p *progressReader) Close() error {
	return errors.Join(p.bar.Finish(), p.f.Close())
}

// OpenFileWithProgress is OpenFile with a progress bar drawn to w.
// Progress is measured on the file as stored, before decompression.
// A nil w disables the bar.
func OpenFileWithProgress(filename string, w io.Writer) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	var r io.ReadCloser = f
	if w != nil {
		fileInfo, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		bar := progressbar.NewOptions64(fileInfo.Size(),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(filepath.Base(filename)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		r = &progressReader{Reader: io.TeeReader(f, bar), bar: bar, f: f}
	}
	if filter, ok := fileTypes[filepath.Ext(filename)]; ok {
		return filter(r)
	}
	return r, nil
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taoky/memstat/pkg/analyze"
)

const scenarioTrace = `Type Core Node Addr Size Latency Result
X A N1 B C 10 Hit
X A N1 B C 20 Miss
X A N2 B C 5 Hit
`

func execute(t *testing.T, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := RootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	// cobra falls back to os.Args on nil
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTrace(t *testing.T, dir, content string) string {
	name := filepath.Join(dir, defaultFilename)
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestRootDefaultFile(t *testing.T) {
	as := assert.New(t)
	dir := t.TempDir()
	writeTrace(t, dir, scenarioTrace)
	t.Chdir(dir)

	stdout, stderr, err := execute(t)
	as.NoError(err)
	as.Equal("{N1: 30, N2: 5}\n=====================\nN1: 30 (1/2=50.0%)\nN2: 5 (1/1=100.0%)\n---------------------\n", stdout)
	as.Contains(stderr, "Using trace file: memStats")
}

func TestReportSubcommand(t *testing.T) {
	as := assert.New(t)
	name := writeTrace(t, t.TempDir(), scenarioTrace)

	stdout, _, err := execute(t, "report", "--node", "N2", name)
	as.NoError(err)
	as.Equal("{N2: 5}\n=====================\nN2: 5 (1/1=100.0%)\n---------------------\n", stdout)

	stdout, _, err = execute(t, "-f", "json", name)
	as.NoError(err)
	as.Contains(stdout, `"node": "N1"`)
}

func TestReportMissingFile(t *testing.T) {
	as := assert.New(t)
	stdout, _, err := execute(t, filepath.Join(t.TempDir(), "nope"))
	as.ErrorIs(err, os.ErrNotExist)
	as.Empty(stdout)
}

func TestReportConfigFile(t *testing.T) {
	as := assert.New(t)
	dir := t.TempDir()
	name := writeTrace(t, dir, scenarioTrace)
	configPath := filepath.Join(dir, "memstat.yaml")
	as.NoError(os.WriteFile(configPath, []byte("format: json\n"), 0644))

	stdout, _, err := execute(t, "--config", configPath, name)
	as.NoError(err)
	as.Contains(stdout, `"hit_percent": 50`)

	stdout, _, err = execute(t, "--config", configPath, "--format", "text", name)
	as.NoError(err)
	as.Contains(stdout, "N1: 30 (1/2=50.0%)")
}

func TestGrepCmd(t *testing.T) {
	as := assert.New(t)
	name := writeTrace(t, t.TempDir(), scenarioTrace)

	stdout, _, err := execute(t, "grep", "--outcome", "hit", name)
	as.NoError(err)
	as.Equal("X A N1 B C 10 Hit\nX A N2 B C 5 Hit\n", stdout)
}

func TestListFormats(t *testing.T) {
	as := assert.New(t)
	stdout, _, err := execute(t, "list", "formats")
	as.NoError(err)
	as.Contains(stdout, "text*")
	as.Contains(stdout, "table")
	as.Contains(stdout, "json")
	as.NotContains(stdout, "txt")

	stdout, _, err = execute(t, "list", "formats", "--all")
	as.NoError(err)
	as.Contains(stdout, "txt")
}

type failingCloser struct{}

func (failingCloser) Close() error {
	return os.ErrClosed
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

func TestCloseInto(t *testing.T) {
	as := assert.New(t)

	var err error
	closeInto(&err, failingCloser{}, "log output")
	as.ErrorIs(err, os.ErrClosed)
	as.ErrorContains(err, "failed to close log output")

	err = os.ErrNotExist
	closeInto(&err, failingCloser{}, "log output")
	as.ErrorIs(err, os.ErrNotExist)
	as.ErrorIs(err, os.ErrClosed)

	err = nil
	closeInto(&err, nopCloser{}, "log output")
	as.NoError(err)
}

func TestFormatRows(t *testing.T) {
	as := assert.New(t)
	formats := []analyze.OutputMeta{
		{Name: "json", Description: "JSON"},
		{Name: "text", Description: "Text"},
		{Name: "txt", Description: "alias", Hidden: true, AliasOf: "text"},
		{Name: "plain", Description: "alias", Hidden: true, AliasOf: "text"},
	}
	as.Equal([][]string{
		{"json", "JSON"},
		{"text*", "Text"},
	}, formatRows(formats, false))
	as.Equal([][]string{
		{"json", "", "JSON"},
		{"text*", "plain,txt", "Text"},
	}, formatRows(formats, true))
}

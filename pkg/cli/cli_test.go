package cli_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/convox/stdcli"
	"github.com/convox/treesort/pkg/cli"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/require"
)

type result struct {
	Code   int
	Stdout string
	Stderr string
}

func (r *result) RequireStderr(t *testing.T, lines []string) {
	require.Equal(t, lines, strings.Split(strings.TrimSuffix(r.Stderr, "\n"), "\n"))
}

func (r *result) RequireStdout(t *testing.T, lines []string) {
	require.Equal(t, lines, strings.Split(strings.TrimSuffix(r.Stdout, "\n"), "\n"))
}

func (r *result) StdoutLines() int {
	return len(strings.Split(strings.TrimSuffix(r.Stdout, "\n"), "\n"))
}

func (r *result) StdoutLine(line int) string {
	return strings.Split(r.Stdout, "\n")[line]
}

func (r *result) StdoutFields(line int) []string {
	return strings.Fields(r.StdoutLine(line))
}

func testEngine(t *testing.T, fn func(*cli.Engine)) {
	e := cli.New("treesort", "test")

	fn(e)
}

func testExecute(e *cli.Engine, cmd string, stdin io.Reader) (*result, error) {
	if stdin == nil {
		stdin = &bytes.Buffer{}
	}

	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}

	// every engine gets its own reader and writer so that engines can run
	// side by side
	e.Reader = &stdcli.Reader{Reader: stdin}
	e.Writer = &stdcli.Writer{
		Color:  false,
		Stdout: &stdout,
		Stderr: &stderr,
		Tags:   stdcli.DefaultWriter.Tags,
	}

	cp, err := shellquote.Split(cmd)
	if err != nil {
		return nil, err
	}

	code := e.Execute(cp)

	res := &result{
		Code:   code,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	return res, nil
}

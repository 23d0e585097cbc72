package cli_test

import (
	"testing"

	"github.com/convox/treesort/pkg/cli"
	"github.com/stretchr/testify/require"
)

func TestTopology(t *testing.T) {
	testEngine(t, func(e *cli.Engine) {
		res, err := testExecute(e, "topology -n 5 -l 5", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		require.Equal(t, 6, res.StdoutLines())
		require.Equal(t, []string{"RANK", "ROLE", "PARENT", "LEFT", "RIGHT", "DEPTH", "LENGTH"}, res.StdoutFields(0))
		require.Equal(t, []string{"0", "internal", "-", "1", "2", "0", "5"}, res.StdoutFields(1))
		require.Equal(t, []string{"1", "internal", "0", "3", "4", "1", "2"}, res.StdoutFields(2))
		require.Equal(t, []string{"2", "leaf", "0", "-", "-", "1", "3"}, res.StdoutFields(3))
		require.Equal(t, []string{"3", "leaf", "1", "-", "-", "2", "1"}, res.StdoutFields(4))
		require.Equal(t, []string{"4", "leaf", "1", "-", "-", "2", "1"}, res.StdoutFields(5))
	})
}

func TestTopologyDebug(t *testing.T) {
	testEngine(t, func(e *cli.Engine) {
		res, err := testExecute(e, "topology -n 3 --debug", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		require.Equal(t, []string{"0", "internal", "-", "1", "2", "0", "40"}, res.StdoutFields(1))
		require.Equal(t, []string{"2", "leaf", "0", "-", "-", "1", "20"}, res.StdoutFields(3))
	})
}

func TestTopologyError(t *testing.T) {
	testEngine(t, func(e *cli.Engine) {
		res, err := testExecute(e, "topology -n 6", nil)
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)
		res.RequireStderr(t, []string{"ERROR: worker count must be a positive odd number: 6"})
		res.RequireStdout(t, []string{""})
	})

	testEngine(t, func(e *cli.Engine) {
		res, err := testExecute(e, "topology -n 3 --length=-2", nil)
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)
		res.RequireStderr(t, []string{"ERROR: input length must not be negative: -2"})
		res.RequireStdout(t, []string{""})
	})
}

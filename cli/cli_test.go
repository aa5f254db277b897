package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matview/config"
	"matview/explorer"
	mt "matview/matfile/matfiletest"
)

func run(t *testing.T, fe Frontends, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(fe)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleFile(t *testing.T) string {
	return mt.WriteFile(t, "sample.mat", mt.Options{Compress: true},
		mt.Record("data", []string{"id", "name"},
			mt.Row("", 1, 2, 3),
			mt.Strings("", "a", "b", "c"),
		),
		mt.Double("m", []int{2, 2}, 1, 3, 2, 4),
		mt.Record("cfg", []string{"inner"}, mt.Record("", []string{"x"}, mt.Scalar("", 5))),
	)
}

func TestVarsCommand(t *testing.T) {
	out, err := run(t, Frontends{}, "vars", sampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "data")
	assert.Contains(t, out, "1x1")
	assert.Contains(t, out, "struct")
	assert.Contains(t, out, "double")
	assert.Contains(t, out, "(3 variables)")
	assert.NotContains(t, out, "cfg.inner")

	out, err = run(t, Frontends{}, "vars", "--fields", sampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "cfg.inner.x")
}

func TestShowCommand(t *testing.T) {
	path := sampleFile(t)

	out, err := run(t, Frontends{}, "show", path, "data")
	require.NoError(t, err)
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "(3 rows)")

	out, err = run(t, Frontends{}, "show", path, "data", "--filter", "id >= 2")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")

	out, err = run(t, Frontends{}, "show", path, "data", "--row", "1")
	require.NoError(t, err)
	assert.Equal(t, "id: 2\nname: b\n", out)

	out, err = run(t, Frontends{}, "show", "--row-limit", "1", path, "m")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 of 2 rows)")
}

func TestTablesKeepHeaderCase(t *testing.T) {
	path := mt.WriteFile(t, "case.mat", mt.Options{},
		mt.Record("s", []string{"X", "x"}, mt.Row("", 1, 2), mt.Row("", 3, 4)),
	)

	out, err := run(t, Frontends{}, "show", path, "s")
	require.NoError(t, err)
	assert.Contains(t, out, "│ X │ x │")

	out, err = run(t, Frontends{}, "vars", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Class")
	assert.NotContains(t, out, "NAME")
}

func TestShowCommandErrors(t *testing.T) {
	path := sampleFile(t)

	_, err := run(t, Frontends{}, "show", path, "missing")
	kind, ok := explorer.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, explorer.DisplayError, kind)

	empty := mt.WriteFile(t, "empty.mat", mt.Options{})
	_, err = run(t, Frontends{}, "show", empty, "x")
	require.Error(t, err)
	assert.Equal(t, "No data found in file.", err.Error())

	_, err = run(t, Frontends{}, "show", path, "data", "--row", "7")
	require.Error(t, err)
}

func TestRootLaunchesGUI(t *testing.T) {
	var gotPath string
	var gotCfg *config.Config
	fe := Frontends{
		GUI: func(_ context.Context, cfg *config.Config, logger *slog.Logger, path string) error {
			require.NotNil(t, logger)
			gotPath, gotCfg = path, cfg
			return nil
		},
	}

	_, err := run(t, fe, "--row-limit", "25", "file.mat")
	require.NoError(t, err)
	assert.Equal(t, "file.mat", gotPath)
	assert.Equal(t, 25, gotCfg.Display.RowLimit)

	_, err = run(t, fe)
	require.NoError(t, err)
	assert.Equal(t, "", gotPath)
}

func TestTUICommand(t *testing.T) {
	called := false
	fe := Frontends{
		TUI: func(_ context.Context, _ *config.Config, _ *slog.Logger, path string) error {
			called = strings.HasSuffix(path, "x.mat")
			return nil
		},
	}
	_, err := run(t, fe, "tui", "x.mat")
	require.NoError(t, err)
	assert.True(t, called)

	_, err = run(t, Frontends{}, "tui", "x.mat")
	assert.Error(t, err)
}

func TestInvalidConfigFlag(t *testing.T) {
	_, err := run(t, Frontends{}, "--log-level", "loud", "vars", "x.mat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, Frontends{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "matview v"+Version)
}

package main

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("jmmc"))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestCompileFlags(t *testing.T) {
	cli, _ := parse(t, "compile", "-O", "--dump-ir", "-j", "2", "-o", "out",
		"--class-version", "46.0", "--log-level", "debug", "-w", "a.jmm", "b.jmm")

	cfg := cli.Compile.Config
	assert.Equal(t, []string{"a.jmm", "b.jmm"}, cfg.Inputs)
	assert.True(t, cfg.Optimize)
	assert.True(t, cfg.DumpIR)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "46.0", cfg.ClassVersion)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Contains(t, cfg.OutputDir, "out")
	assert.NoError(t, cfg.Validate())
}

func TestCompileDefaults(t *testing.T) {
	cli, _ := parse(t, "compile", "a.jmm")

	cfg := cli.Compile.Config
	assert.False(t, cfg.Optimize)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "49.0", cfg.ClassVersion)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestCompileRejectsUnknownLevel(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("jmmc"))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"compile", "--log-level", "trace", "a.jmm"})
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version())
	assert.Contains(t, Version(), "0.1.0")
}

func vcs(revision, modified string) []debug.BuildSetting {
	return []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.modified", Value: modified},
	}
}

func TestDescribeBuild(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"no build info", nil, "0.1.0"},
		{"tagged module", &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}}, "1.2.3"},
		{"development build", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: vcs("abc1234def", "false")}, "0.1.0+abc1234"},
		{"modified working tree", &debug.BuildInfo{Settings: vcs("abc", "true")}, "0.1.0+abc.dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeBuild(tt.info).String())
		})
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printVersion(&out, buildInfo{Version: "0.1.0", GoVersion: "go1.24.0"}))
	assert.Equal(t, "jmmc 0.1.0 (go1.24.0)\nclass files: >= 45.3, < 51, default 49.0\n", out.String())
}

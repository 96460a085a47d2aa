package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/hassan/jmm/internal/config"
)

// release is the version of the sources, used when the binary was not
// installed from a tagged module.
//
//go:embed VERSION
var release string

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info, _ := debug.ReadBuildInfo()
	return printVersion(os.Stdout, describeBuild(info))
}

// buildInfo is what jmmc knows about its own build.
type buildInfo struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

// describeBuild reads the module version and VCS stamp from info, which is
// nil when the binary carries no build information.
func describeBuild(info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: strings.TrimSpace(release), GoVersion: runtime.Version()}
	if info == nil {
		return b
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.Version = strings.TrimPrefix(v, "v")
	}
	if info.GoVersion != "" {
		b.GoVersion = info.GoVersion
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value[:min(7, len(s.Value))]
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// String renders "0.1.0", "0.1.0+abc1234" or "0.1.0+abc1234.dirty".
func (b buildInfo) String() string {
	v := b.Version
	if b.Revision != "" {
		v += "+" + b.Revision
		if b.Modified {
			v += ".dirty"
		}
	}
	return v
}

func printVersion(w io.Writer, b buildInfo) error {
	_, err := fmt.Fprintf(w, "jmmc %s (%s)\nclass files: %s, default %s\n",
		b, b.GoVersion, config.ClassVersions, config.Default().ClassVersion)
	return err
}

// Version returns the version of the running binary.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return describeBuild(info).String()
}

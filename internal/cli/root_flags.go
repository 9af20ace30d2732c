package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

// handleInfoFlags answers --help and --version, which win over any command.
func handleInfoFlags(opts *globalOptions, rest []string) (bool, int) {
	switch {
	case opts.help:
		if len(rest) > 0 && printCommandHelp(rootStdout, rest[0]) {
			return true, 0
		}
		printRootHelp(rootStdout)
		return true, 0
	case opts.version:
		fmt.Fprintf(rootStdout, "agent-browser %s\n", buildVersion)
		return true, 0
	case len(rest) == 0:
		printRootHelp(rootStdout)
		return true, 0
	default:
		return false, 0
	}
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}

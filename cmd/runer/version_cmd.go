package main

import (
	"fmt"
	"runtime/debug"

	"github.com/itwasneo/runer/version"
)

// VersionCmd is grounded on cmd/sand/version_cmd.go and version/version.go.
type VersionCmd struct{}

func (c *VersionCmd) Run(rctx *Context) error {
	v := version.Get()
	fmt.Printf("Git Repository: %s\n", v.GitRepo)
	fmt.Printf("Git Branch: %s\n", v.GitBranch)
	fmt.Printf("Git Commit: %s\n", v.GitCommit)
	fmt.Printf("Build Time: %s\n", v.BuildTime)

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("Build info not available")
		return nil
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == "vcs.revision" && v.GitCommit == "" {
			fmt.Printf("Git Commit: %s\n", setting.Value)
		}
		if setting.Key == "vcs.time" && v.BuildTime == "" {
			fmt.Printf("Commit Time: %s\n", setting.Value)
		}
		if setting.Key == "vcs.modified" {
			fmt.Printf("Modified: %s\n", setting.Value)
		}
	}
	return nil
}

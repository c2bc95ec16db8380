//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd,!dragonfly

package source

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}

// Only the process itself is killed, by exec.CommandContext.
func killProcessGroup(cmd *exec.Cmd) {}

//go:build !windows

package adb

import "os/exec"

func hideConsoleWindow(*exec.Cmd) {}

//go:build !unix

package util

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}

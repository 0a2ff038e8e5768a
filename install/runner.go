package install

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes the external installer and waits for it to exit.
// A non-zero exit code is not an error; err is reserved for failing to run
// the process at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (exitCode int, err error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = sysProcAttr()

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// MSIArgs selects a silent, no-reboot install with verbose logging flushed
// after every line.
func MSIArgs(payload, logPath string) []string {
	return []string{"/i", payload, "/qn", "/norestart", "/l*v!", logPath}
}

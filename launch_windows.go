package main

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/hashicorp/go-multierror"
)

const sFalse = 0x00000001

// startDetached asks Explorer to start the application so it does not
// inherit our elevation or console, falling back to a plain child process.
func startDetached(path string) error {
	shellErr := shellExecute(path)
	if shellErr == nil {
		return nil
	}

	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return multierror.Append(shellErr, err)
	}
	return cmd.Process.Release()
}

func shellExecute(path string) error {
	// COM initialisation is per thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("failed to initialise COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return fmt.Errorf("failed to create Shell object: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("failed to get IDispatch interface: %w", err)
	}
	defer shell.Release()

	// ShellExecute(file, args, dir, verb, show); 1 = SW_SHOWNORMAL
	if _, err = oleutil.CallMethod(shell, "ShellExecute", path, "", filepath.Dir(path), "open", 1); err != nil {
		return fmt.Errorf("ShellExecute failed: %w", err)
	}
	return nil
}

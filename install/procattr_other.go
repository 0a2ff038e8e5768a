//go:build !windows

package install

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

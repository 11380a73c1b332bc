//go:build !windows
// +build !windows

package hal

import (
	"fmt"
	"os"
	"syscall"

	"github.com/golang/glog"
)

// ExecPlatform restarts the controller by re-executing the current binary
// with the same arguments and environment.
type ExecPlatform struct {
	// BeforeExec is called right before exec, e.g. to flush logs.
	BeforeExec func()
}

// Restart implements Platform. It only returns on failure.
func (p *ExecPlatform) Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("restart: %v", err)
	}
	glog.Infof("restarting %s", exe)
	glog.Flush()
	if fn := p.BeforeExec; fn != nil {
		fn()
	}
	if err = syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("restart: %v", err)
	}
	return nil
}

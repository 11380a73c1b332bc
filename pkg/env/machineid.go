// Package env provides the environment shared by eyebot binaries.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves the unique ID identifying the machine.
// The ID is hashed with the application name so the raw machine ID
// never leaves the host. It returns an empty string when unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID("eyebot")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return ""
	}
	return id
}

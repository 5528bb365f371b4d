// Package node derives the role of the local machine from the container
// runtime. The process table of the runtime is the source of truth: no role
// is ever recorded on disk, so a crashed or torn-down node never reports a
// stale role.
package node

import (
	"context"
	"strings"
)

// Role classifies what this node is currently doing.
type Role int

const (
	// RoleNone means no cluster component is running here.
	RoleNone Role = iota

	// RoleWorker means the kubelet is running but no API server is.
	RoleWorker

	// RoleMaster means both the kubelet and the API server are running.
	RoleMaster
)

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "master"
	case RoleWorker:
		return "worker"
	default:
		return "none"
	}
}

// Active reports whether any cluster component runs on this node.
func (r Role) Active() bool {
	return r != RoleNone
}

// Inspector answers role queries against a live container runtime.
type Inspector interface {
	// Role classifies the local node. An unreachable runtime yields
	// RoleNone together with the error, so best-effort callers can keep
	// going while strict callers can abort.
	Role(ctx context.Context) (Role, error)
}

// Component name fragments looked for in running container names and
// images. The kube-deploy scripts run the control plane as containers whose
// names embed the component binary.
const (
	kubeletToken   = "kubelet"
	apiserverToken = "apiserver"
)

// Classify maps the set of running container identifiers (names and images)
// to a role.
func Classify(running []string) Role {
	var kubelet, apiserver bool
	for _, id := range running {
		if strings.Contains(id, kubeletToken) {
			kubelet = true
		}
		if strings.Contains(id, apiserverToken) {
			apiserver = true
		}
	}

	switch {
	case kubelet && apiserver:
		return RoleMaster
	case kubelet:
		return RoleWorker
	default:
		return RoleNone
	}
}

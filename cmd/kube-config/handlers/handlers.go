// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic functions that receive parsed and
// validated input from the commands package and execute the requested
// operation. Construction of the pieces they wire together goes through
// package-level factory variables so tests can substitute fakes.
package handlers

import (
	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/node"
	"github.com/gardleopard/kubernetes-on-arm/internal/status"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// Factory function variables - can be replaced in tests.
var (
	// newRunner creates the command runner handlers execute through.
	newRunner = func() runner.Runner {
		return runner.New()
	}

	// loadVersions reads the effective version pins.
	loadVersions = func() (config.Versions, error) {
		return config.LoadVersions(config.VersionsFile)
	}

	// newInspector connects to the local container runtime. The returned
	// value carries both role detection and the runtime server version.
	newInspector = func() (status.RuntimeInfo, error) {
		return node.NewDockerInspector()
	}

	// newStore opens the cluster parameter store.
	newStore = func() *config.Store {
		return config.NewStore(config.StoreFile)
	}
)

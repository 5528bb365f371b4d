// Package main is the entry point for kube-config.
//
// kube-config is the admin tool for kubernetes-on-arm: it prepares a
// single-board computer as a cluster node, joins it to a cluster as a
// master or worker, and manages addons against the running cluster.
//
// Commands: install, enable-master, enable-worker, disable, enable-addon,
// disable-addon, info.
//
// For detailed usage information, run:
//
//	kube-config --help
package main

import (
	"fmt"
	"os"

	"github.com/gardleopard/kubernetes-on-arm/cmd/kube-config/commands"
)

// Version information set by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

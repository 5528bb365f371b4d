// Package cluster turns this node into a master or worker, or tears it
// down again. The actual bring-up is delegated to the pinned kube-deploy
// scripts; this controller's value is the precondition checks and the
// persistence of join parameters around those calls.
package cluster

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// Entry scripts of the kube-deploy project.
const (
	masterScript   = "./master.sh"
	workerScript   = "./worker.sh"
	turndownScript = "./turndown.sh"
)

// Controller drives the cluster lifecycle of the local node.
type Controller struct {
	runner    runner.Runner
	store     *config.Store
	versions  config.Versions
	scriptDir string

	// probe is swapped in tests.
	probe func(ctx context.Context, client *http.Client, ip string) error
}

// NewController returns a controller running scripts from scriptDir.
func NewController(r runner.Runner, store *config.Store, versions config.Versions, scriptDir string) *Controller {
	return &Controller{
		runner:    r,
		store:     store,
		versions:  versions,
		scriptDir: scriptDir,
		probe:     ProbeMaster,
	}
}

// EnableMaster brings up the control plane on this node. No local state is
// recorded; the running containers are the record.
func (c *Controller) EnableMaster(ctx context.Context) error {
	log.Info("bringing up master")
	return c.runScript(ctx, masterScript, nil)
}

// EnableWorker joins this node to the master at masterIP. When masterIP is
// empty the last recorded address from the config store is used. The
// resolved address is persisted back unconditionally, and the master must
// pass the liveness probe before the join script runs.
func (c *Controller) EnableWorker(ctx context.Context, masterIP string) error {
	ip, err := c.resolveMasterIP(masterIP)
	if err != nil {
		return err
	}

	if err := c.store.Set(config.KeyMasterIP, ip); err != nil {
		return err
	}

	if err := c.probe(ctx, http.DefaultClient, ip); err != nil {
		return err
	}

	log.Infof("joining master at %s", ip)
	return c.runScript(ctx, workerScript, []string{"K8S_MASTER_IP=" + ip})
}

// Disable tears the node down unconditionally, whatever its role.
func (c *Controller) Disable(ctx context.Context) error {
	log.Info("turning down cluster components")
	return c.runScript(ctx, turndownScript, nil)
}

func (c *Controller) resolveMasterIP(masterIP string) (string, error) {
	if masterIP != "" {
		return masterIP, nil
	}

	stored, err := c.store.Get(config.KeyMasterIP)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", fmt.Errorf("no master address given and none recorded; run `kube-config enable-worker <master-ip>` once")
	}
	log.Debugf("using recorded master address %s", stored)
	return stored, nil
}

func (c *Controller) runScript(ctx context.Context, script string, extraEnv []string) error {
	env := append([]string{
		"K8S_VERSION=" + c.versions.Kubernetes,
	}, extraEnv...)

	if err := c.runner.Run(ctx, runner.Command{
		Name: script,
		Dir:  c.scriptDir,
		Env:  env,
	}); err != nil {
		return fmt.Errorf("running %s: %w", script, err)
	}
	return nil
}

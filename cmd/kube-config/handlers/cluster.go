package handlers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/gardleopard/kubernetes-on-arm/internal/cluster"
	"github.com/gardleopard/kubernetes-on-arm/internal/config"
	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// newController creates the cluster lifecycle controller.
// Factory variable - can be replaced in tests.
var newController = func(r runner.Runner, store *config.Store, versions config.Versions) *cluster.Controller {
	return cluster.NewController(r, store, versions, config.SourceDir)
}

// EnableMaster handles the enable-master command.
func EnableMaster(ctx context.Context) error {
	c, err := controller()
	if err != nil {
		return err
	}
	if err := c.EnableMaster(ctx); err != nil {
		return err
	}
	log.Info("this node is now a master")
	return nil
}

// EnableWorker handles the enable-worker command. masterIP may be empty,
// in which case the address remembered from a previous join is used.
func EnableWorker(ctx context.Context, masterIP string) error {
	c, err := controller()
	if err != nil {
		return err
	}
	if err := c.EnableWorker(ctx, masterIP); err != nil {
		return err
	}
	log.Info("this node is now a worker")
	return nil
}

// Disable handles the disable command. It tears down whatever cluster
// services run on this node; running it on an idle node is harmless.
func Disable(ctx context.Context) error {
	c, err := controller()
	if err != nil {
		return err
	}
	if err := c.Disable(ctx); err != nil {
		return err
	}
	log.Info("cluster services stopped on this node")
	return nil
}

func controller() (*cluster.Controller, error) {
	versions, err := loadVersions()
	if err != nil {
		return nil, err
	}
	return newController(newRunner(), newStore(), versions), nil
}

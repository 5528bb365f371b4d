package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Versions pins every externally fetched component. The defaults are the
// tested combination; operators can override individual pins by dropping a
// versions.yaml next to the config store.
type Versions struct {
	// Kubernetes is the cluster version deployed by the kube-deploy scripts.
	Kubernetes string `yaml:"kubernetes"`

	// Kubectl is the version of the downloaded cluster CLI.
	Kubectl string `yaml:"kubectl"`

	// Helm is the version of the downloaded package-manager CLI.
	Helm string `yaml:"helm"`

	// KubeDeployRef is the pinned revision of the kube-deploy project.
	KubeDeployRef string `yaml:"kubeDeployRef"`

	// KubeDeployRepo is the clone URL of the kube-deploy project.
	KubeDeployRepo string `yaml:"kubeDeployRepo"`

	// AddonImage is substituted for the VERSION placeholder in addon
	// manifests. Empty means "same as Kubernetes".
	AddonImage string `yaml:"addonImage"`
}

// DefaultVersions returns the built-in pins.
func DefaultVersions() Versions {
	return Versions{
		Kubernetes:     "v1.29.3",
		Kubectl:        "v1.29.3",
		Helm:           "v3.14.3",
		KubeDeployRef:  "f74eb28a6a0d21f0e21a7c4e423da6b5b9e32d33",
		KubeDeployRepo: "https://github.com/luxas/kube-deploy",
	}
}

// LoadVersions returns the default pins merged with any override file at
// path. A missing file is not an error; a malformed one is.
func LoadVersions(path string) (Versions, error) {
	v := DefaultVersions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return v, fmt.Errorf("reading versions file: %w", err)
	}

	var override Versions
	if err := yaml.Unmarshal(data, &override); err != nil {
		return v, fmt.Errorf("parsing %s: %w", path, err)
	}

	merge(&v.Kubernetes, override.Kubernetes)
	merge(&v.Kubectl, override.Kubectl)
	merge(&v.Helm, override.Helm)
	merge(&v.KubeDeployRef, override.KubeDeployRef)
	merge(&v.KubeDeployRepo, override.KubeDeployRepo)
	merge(&v.AddonImage, override.AddonImage)

	return v, nil
}

// AddonVersion returns the tag substituted into addon manifests.
func (v Versions) AddonVersion() string {
	if v.AddonImage != "" {
		return v.AddonImage
	}
	return v.Kubernetes
}

func merge(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

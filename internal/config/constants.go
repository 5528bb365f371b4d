package config

// Well-known filesystem locations used across the tool. Paths are package
// constants; components that need alternates (tests, mostly) take the path
// as a parameter instead of reading these directly.
const (
	// DataDir is the root of all node-local state kept by kube-config.
	DataDir = "/etc/kubernetes-on-arm"

	// StoreFile is the flat KEY=VALUE file holding cluster-joining parameters.
	StoreFile = DataDir + "/k8s.conf"

	// EnvFile persists the resolved board/OS profile.
	EnvFile = DataDir + "/env.conf"

	// AddonDir holds one manifest per addon, named <addon>.yaml.
	AddonDir = DataDir + "/addons"

	// SourceDir is the checkout location of the kube-deploy project.
	SourceDir = DataDir + "/source/kube-deploy"

	// VersionsFile optionally overrides the built-in version pins.
	VersionsFile = DataDir + "/versions.yaml"

	// BinDir receives the downloaded kubectl and helm binaries.
	BinDir = "/usr/local/bin"

	// SwapFile is the well-known swap file path checked before creating swap.
	SwapFile = "/swapfile"
)

// KeyMasterIP is the config store key remembering the last master address a
// worker joined, so `enable-worker` can be re-run without an argument.
const KeyMasterIP = "K8S_MASTER_IP"

package install

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/gardleopard/kubernetes-on-arm/internal/util/runner"
)

// Download URL templates, variables so tests can point them at a local
// server.
var (
	kubectlURL = "https://dl.k8s.io/release/%s/bin/linux/%s/kubectl"
	helmURL    = "https://get.helm.sh/helm-%s-linux-%s.tar.gz"
)

// fetchKubeDeploy places the kube-deploy project at the pinned revision
// under the source dir. An existing checkout is reused. Without git the
// project archive is fetched instead, which cannot pin the revision.
func (i *Installer) fetchKubeDeploy(ctx context.Context) error {
	if _, err := os.Stat(i.paths.SourceDir); err == nil {
		log.Infof("kube-deploy already present at %s, reusing", i.paths.SourceDir)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(i.paths.SourceDir), 0o755); err != nil {
		return fmt.Errorf("creating source dir: %w", err)
	}

	if runner.LookPath("git") {
		return i.cloneKubeDeploy(ctx)
	}

	log.Warnf("git not found; falling back to an archive download of %s, which cannot pin revision %s",
		i.versions.KubeDeployRepo, i.versions.KubeDeployRef)
	return i.downloadKubeDeployArchive(ctx)
}

func (i *Installer) cloneKubeDeploy(ctx context.Context) error {
	if err := i.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"clone", i.versions.KubeDeployRepo, i.paths.SourceDir},
	}); err != nil {
		return err
	}
	return i.runner.Run(ctx, runner.Command{
		Name: "git",
		Args: []string{"-C", i.paths.SourceDir, "checkout", i.versions.KubeDeployRef},
	})
}

func (i *Installer) downloadKubeDeployArchive(ctx context.Context) error {
	url := strings.TrimSuffix(i.versions.KubeDeployRepo, "/") + "/archive/master.tar.gz"

	body, err := i.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	return untarInto(body, i.paths.SourceDir)
}

// fetchBinaries downloads the pinned kubectl and helm into the bin dir.
func (i *Installer) fetchBinaries(ctx context.Context) error {
	arch := nodeArch()

	if err := i.downloadFile(ctx,
		fmt.Sprintf(kubectlURL, i.versions.Kubectl, arch),
		filepath.Join(i.paths.BinDir, "kubectl")); err != nil {
		return fmt.Errorf("kubectl %s: %w", i.versions.Kubectl, err)
	}

	if err := i.downloadHelm(ctx, arch); err != nil {
		return fmt.Errorf("helm %s: %w", i.versions.Helm, err)
	}
	return nil
}

// downloadHelm extracts the single helm binary out of the release tarball.
func (i *Installer) downloadHelm(ctx context.Context, arch string) error {
	body, err := i.get(ctx, fmt.Sprintf(helmURL, i.versions.Helm, arch))
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	member := "linux-" + arch + "/helm"
	dest := filepath.Join(i.paths.BinDir, "helm")
	if err := extractTarMember(body, member, dest); err != nil {
		return err
	}
	return os.Chmod(dest, 0o755)
}

func (i *Installer) downloadFile(ctx context.Context, url, dest string) error {
	body, err := i.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	log.Infof("downloaded %s", dest)
	return nil
}

func (i *Installer) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// nodeArch maps the Go architecture to the release artifact names.
func nodeArch() string {
	switch runtime.GOARCH {
	case "arm":
		return "arm"
	case "arm64":
		return "arm64"
	default:
		return runtime.GOARCH
	}
}

// untarInto unpacks a gzipped tarball into dest, stripping the single
// top-level directory GitHub archives carry.
func untarInto(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		name := stripTopDir(hdr.Name)
		if name == "" {
			continue
		}
		target, err := securePath(dest, name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("extracting %s: %w", name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("extracting %s: %w", name, err)
			}
			// #nosec G115 -- mode comes from the archive header
			if err := writeFileFrom(tr, target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("extracting %s: %w", name, err)
			}
		}
	}
}

// extractTarMember pulls one named file out of a gzipped tarball.
func extractTarMember(r io.Reader, member, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("archive has no member %s", member)
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && hdr.Name == member {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			return writeFileFrom(tr, dest, 0o755)
		}
	}
}

func writeFileFrom(r io.Reader, dest string, mode os.FileMode) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(f, r)
	return err
}

func stripTopDir(name string) string {
	_, rest, ok := strings.Cut(filepath.ToSlash(name), "/")
	if !ok {
		return ""
	}
	return rest
}

// securePath joins name under dest and rejects path traversal out of dest.
func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes destination", name)
	}
	return target, nil
}

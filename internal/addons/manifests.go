package addons

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

//go:embed manifests/*.yaml
var builtinFS embed.FS

// InstallBuiltins materializes the stock addon manifests into dir so a
// freshly installed node has them available. Existing files are left
// alone: operators may have edited them.
func InstallBuiltins(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating addon dir: %w", err)
	}

	entries, err := fs.Glob(builtinFS, "manifests/*.yaml")
	if err != nil {
		return fmt.Errorf("listing builtin manifests: %w", err)
	}

	for _, name := range entries {
		dest := filepath.Join(dir, filepath.Base(name))
		if _, err := os.Stat(dest); err == nil {
			continue
		}

		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading builtin manifest %s: %w", name, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("installing %s: %w", dest, err)
		}
		log.Debugf("installed addon manifest %s", dest)
	}
	return nil
}

package tendem

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/utils"
)

// saveArtifact writes data to path through a temp file in the same folder,
// and returns the absolute path.
func saveArtifact(path string, data []byte) (string, error) {
	abs, err := utils.ExpandPath(path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(abs)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create folder: %s", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return "", errors.Wrapf(err, "failed to create file in: %s", dir)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return "", errors.Wrapf(err, "failed to write file: %s", tmp)
	}
	if err = f.Sync(); err != nil {
		return "", errors.Wrapf(err, "failed to sync file: %s", tmp)
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close file: %s", tmp)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to set mode: %s", tmp)
	}
	if err = os.Rename(tmp, abs); err != nil {
		return "", errors.Wrapf(err, "failed to save file: %s", abs)
	}
	return abs, nil
}

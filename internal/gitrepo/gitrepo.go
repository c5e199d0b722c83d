// Package gitrepo acquires remote repositories into temporary directories.
package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

const (
	temporaryDirectoryPattern = "git2text-clone-*"
	errorCreateTempFormat     = "creating temporary clone directory: %w"
	errorCloneFormat          = "cloning repository %s: %w"
	warningCleanupFormat      = "Warning: failed to remove temporary directory %s: %v"
	writableFileMode          = os.FileMode(0o700)
)

// remoteURLPrefixes lists the URL schemes treated as remote repositories.
var remoteURLPrefixes = []string{"http://", "https://", "git@", "ssh://", "git://"}

// IsRemoteURL reports whether the provided path names a remote repository
// rather than a local directory.
func IsRemoteURL(path string) bool {
	for _, prefix := range remoteURLPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// CloneToTemp clones the repository at repositoryURL into a freshly created
// temporary directory and returns its path together with a cleanup function.
// The cleanup function is safe on every exit path: it removes the directory,
// retrying once with forced writable permissions when read-only files block
// removal, and logs a warning instead of failing when removal still does not
// succeed.
func CloneToTemp(ctx context.Context, repositoryURL string, logger *zap.Logger) (string, func(), error) {
	temporaryDirectory, tempError := os.MkdirTemp("", temporaryDirectoryPattern)
	if tempError != nil {
		return "", nil, fmt.Errorf(errorCreateTempFormat, tempError)
	}

	cleanup := func() {
		removeTemporaryDirectory(temporaryDirectory, logger)
	}

	cloneOptions := &git.CloneOptions{
		URL:      repositoryURL,
		Depth:    1,
		Progress: os.Stderr,
	}
	if _, cloneError := git.PlainCloneContext(ctx, temporaryDirectory, false, cloneOptions); cloneError != nil {
		cleanup()
		return "", nil, fmt.Errorf(errorCloneFormat, repositoryURL, cloneError)
	}

	return temporaryDirectory, cleanup, nil
}

// removeTemporaryDirectory removes the directory tree, forcing writable
// permissions and retrying once when the first attempt fails. Remaining
// failures are reported as warnings and do not change the run outcome.
func removeTemporaryDirectory(directoryPath string, logger *zap.Logger) {
	firstError := os.RemoveAll(directoryPath)
	if firstError == nil {
		return
	}

	forceWritable(directoryPath)
	if retryError := os.RemoveAll(directoryPath); retryError != nil {
		logger.Warn(fmt.Sprintf(warningCleanupFormat, directoryPath, retryError))
	}
}

// forceWritable adds write permission to every entry under directoryPath.
// Walk errors are ignored; the subsequent removal retry surfaces anything
// that still blocks deletion.
func forceWritable(directoryPath string) {
	_ = filepath.WalkDir(directoryPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			return nil
		}
		_ = os.Chmod(walkedPath, writableFileMode)
		return nil
	})
}

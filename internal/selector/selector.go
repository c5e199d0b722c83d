// Package selector walks a directory tree and decides which files are selected.
package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/pattern"
	"github.com/temirov/git2text/internal/utils"
)

const (
	warningAccessPathFormat = "Warning: error accessing path %s: %v"
	directorySuffix         = "/"
	errorAbsolutePathFormat = "resolving absolute path for %s: %w"
)

// Select performs one full traversal of rootDirectory and returns the sorted,
// deduplicated list of relative file paths that pass the filters.
//
// Directories matching ignoreSpec (tested with a trailing separator) are
// pruned before descent. The repository metadata directory is pruned
// unconditionally. Files are rejected when they match ignoreSpec; when
// includeSpec is non-nil a file is accepted only if it also matches
// includeSpec. Per-entry errors are logged and the affected subtree skipped;
// the walk continues elsewhere.
func Select(rootDirectory string, ignoreSpec *pattern.Spec, includeSpec *pattern.Spec, logger *zap.Logger) ([]string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectory, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	selectedPaths := make(map[string]struct{})

	walkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn(fmt.Sprintf(warningAccessPathFormat, walkedPath, accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}

		if directoryEntry.IsDir() {
			if directoryEntry.Name() == utils.GitDirectoryName {
				return filepath.SkipDir
			}
			if ignoreSpec.Matches(relativePath+directorySuffix, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !directoryEntry.Type().IsRegular() {
			return nil
		}
		if ignoreSpec.Matches(relativePath, false) {
			return nil
		}
		if includeSpec != nil && !includeSpec.Matches(relativePath, false) {
			return nil
		}

		selectedPaths[relativePath] = struct{}{}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	result := make([]string, 0, len(selectedPaths))
	for selectedPath := range selectedPaths {
		result = append(result, selectedPath)
	}
	sort.Strings(result)
	return result, nil
}

// Package tree builds and renders the directory structure of selected files.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/pattern"
	"github.com/temirov/git2text/internal/utils"
)

const (
	midConnector         = "├── "
	terminalConnector    = "└── "
	midPadding           = "│   "
	terminalPadding      = "    "
	directorySuffix      = "/"
	warningReadDirFormat = "Warning: skipping directory %s: %v"
)

// Node represents one path segment of the directory tree. Children are owned
// exclusively by their parent and are always rendered in ascending
// lexicographic order by name.
type Node struct {
	Name        string
	IsDirectory bool
	children    map[string]*Node
}

// NewRoot creates an empty directory node that acts as the tree root.
func NewRoot() *Node {
	return &Node{IsDirectory: true, children: make(map[string]*Node)}
}

// Child returns the named child node, or nil when absent.
func (node *Node) Child(name string) *Node {
	return node.children[name]
}

// ChildCount returns the number of direct children.
func (node *Node) ChildCount() int {
	return len(node.children)
}

// ensureDirectory returns the named directory child, creating it when absent.
// Revisiting an existing directory node reuses it.
func (node *Node) ensureDirectory(name string) *Node {
	if existing, present := node.children[name]; present {
		return existing
	}
	created := &Node{Name: name, IsDirectory: true, children: make(map[string]*Node)}
	node.children[name] = created
	return created
}

// addFile attaches a file node under the receiver, reusing an existing entry.
func (node *Node) addFile(name string) {
	if _, present := node.children[name]; present {
		return
	}
	node.children[name] = &Node{Name: name}
}

// BuildFromSelection builds a tree from forward-slash relative file paths.
// Intermediate directory nodes are created on demand.
func BuildFromSelection(relativePaths []string) *Node {
	root := NewRoot()
	for _, relativePath := range relativePaths {
		segments := utils.SplitPathSegments(relativePath)
		currentNode := root
		for _, directorySegment := range segments[:len(segments)-1] {
			currentNode = currentNode.ensureDirectory(directorySegment)
		}
		fileName := segments[len(segments)-1]
		if fileName != "" {
			currentNode.addFile(fileName)
		}
	}
	return root
}

// BuildFromWalk builds a tree by walking rootDirectory with the same pruning
// rules as the selector: the repository metadata directory is always pruned
// and entries matching ignoreSpec are skipped. Directories left without any
// surviving descendant are removed post-recursion, so the rendered tree never
// shows an empty directory.
func BuildFromWalk(rootDirectory string, ignoreSpec *pattern.Spec, logger *zap.Logger) (*Node, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return nil, fmt.Errorf("resolving absolute path for %s: %w", rootDirectory, absolutePathError)
	}
	root := NewRoot()
	buildWalkChildren(absoluteRootPath, absoluteRootPath, root, ignoreSpec, logger)
	return root, nil
}

func buildWalkChildren(currentDirectoryPath, rootDirectoryPath string, parentNode *Node, ignoreSpec *pattern.Spec, logger *zap.Logger) {
	directoryEntries, readError := os.ReadDir(currentDirectoryPath)
	if readError != nil {
		logger.Warn(fmt.Sprintf(warningReadDirFormat, currentDirectoryPath, readError))
		return
	}

	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativePath := utils.RelativePathOrSelf(entryPath, rootDirectoryPath)

		if directoryEntry.IsDir() {
			if directoryEntry.Name() == utils.GitDirectoryName {
				continue
			}
			if ignoreSpec.Matches(relativePath+directorySuffix, true) {
				continue
			}
			directoryNode := parentNode.ensureDirectory(directoryEntry.Name())
			buildWalkChildren(entryPath, rootDirectoryPath, directoryNode, ignoreSpec, logger)
			if directoryNode.ChildCount() == 0 {
				delete(parentNode.children, directoryEntry.Name())
			}
			continue
		}

		if !directoryEntry.Type().IsRegular() {
			continue
		}
		if ignoreSpec.Matches(relativePath, false) {
			continue
		}
		parentNode.addFile(directoryEntry.Name())
	}
}

// Render produces the ASCII rendering of the tree. Children appear in
// ascending name order, directories carry a trailing separator, the last
// sibling at each level uses the terminal connector glyph, and continuation
// padding keeps nested structure visually traceable.
func Render(root *Node) string {
	var builder strings.Builder
	renderChildren(&builder, root, "")
	return builder.String()
}

func renderChildren(builder *strings.Builder, node *Node, padding string) {
	sortedNames := make([]string, 0, len(node.children))
	for childName := range node.children {
		sortedNames = append(sortedNames, childName)
	}
	sort.Strings(sortedNames)

	lastIndex := len(sortedNames) - 1
	for index, childName := range sortedNames {
		childNode := node.children[childName]
		connector := midConnector
		childPadding := padding + midPadding
		if index == lastIndex {
			connector = terminalConnector
			childPadding = padding + terminalPadding
		}
		displayName := childNode.Name
		if childNode.IsDirectory {
			displayName += directorySuffix
		}
		builder.WriteString(padding + connector + displayName + "\n")
		if childNode.IsDirectory {
			renderChildren(builder, childNode, childPadding)
		}
	}
}

package document_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/git2text/internal/document"
	"github.com/temirov/git2text/internal/pattern"
)

// writeFixtureFile creates a file with parent directories, failing the test on error.
func writeFixtureFile(testingHandle *testing.T, rootDirectory, relativePath, content string) {
	testingHandle.Helper()
	fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if makeDirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("creating directories for %s: %v", relativePath, makeDirError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", relativePath, writeError)
	}
}

// TestGenerateEndToEnd runs the full pipeline over a small project with a
// repository ignore file and verifies the document structure.
func TestGenerateEndToEnd(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, rootDirectory, "main.py", "print(1)")
	writeFixtureFile(testingHandle, rootDirectory, "README.md", "# Hi")
	writeFixtureFile(testingHandle, rootDirectory, ".gitignore", "*.log\n")
	writeFixtureFile(testingHandle, rootDirectory, "app.log", "error")

	repositorySpec, repositoryError := pattern.RepositorySpec(rootDirectory)
	if repositoryError != nil {
		testingHandle.Fatalf("RepositorySpec failed: %v", repositoryError)
	}

	documentText, generateError := document.Generate(document.Options{
		RootDirectory: rootDirectory,
		IgnoreSpec:    repositorySpec,
		SkipEmpty:     false,
		Logger:        zap.NewNop(),
	})
	if generateError != nil {
		testingHandle.Fatalf("Generate failed: %v", generateError)
	}

	if !strings.HasPrefix(documentText, "Project Tree:\n") {
		testingHandle.Fatalf("document should open with the tree section header")
	}
	if !strings.Contains(documentText, "# File: main.py\n```python\nprint(1)\n```\n# End of file: main.py\n") {
		testingHandle.Fatalf("missing or malformed main.py block:\n%s", documentText)
	}
	if !strings.Contains(documentText, "# File: README.md\n```markdown\n# Hi\n```\n") {
		testingHandle.Fatalf("missing or malformed README.md block:\n%s", documentText)
	}
	if strings.Contains(documentText, "# File: app.log") {
		testingHandle.Fatalf("ignored file must not produce a content block")
	}
	if strings.Contains(documentText, "app.log") {
		testingHandle.Fatalf("ignored file must not appear in the tree")
	}

	gitignoreIndex := strings.Index(documentText, "# File: .gitignore")
	readmeIndex := strings.Index(documentText, "# File: README.md")
	mainIndex := strings.Index(documentText, "# File: main.py")
	if gitignoreIndex == -1 || readmeIndex == -1 || mainIndex == -1 {
		testingHandle.Fatalf("expected blocks for .gitignore, README.md, and main.py")
	}
	if !(gitignoreIndex < readmeIndex && readmeIndex < mainIndex) {
		testingHandle.Fatalf("blocks must follow ascending selection order")
	}
}

// TestGenerateSkipEmptyKeepsFileInTree verifies that a zero-byte file stays
// in the rendered tree while producing no content block.
func TestGenerateSkipEmptyKeepsFileInTree(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, rootDirectory, "empty.txt", "")
	writeFixtureFile(testingHandle, rootDirectory, "full.txt", "content\n")

	emptySpec, compileError := pattern.Compile(nil)
	if compileError != nil {
		testingHandle.Fatalf("Compile failed: %v", compileError)
	}

	documentText, generateError := document.Generate(document.Options{
		RootDirectory: rootDirectory,
		IgnoreSpec:    emptySpec,
		SkipEmpty:     true,
		Logger:        zap.NewNop(),
	})
	if generateError != nil {
		testingHandle.Fatalf("Generate failed: %v", generateError)
	}

	if !strings.Contains(documentText, "├── empty.txt\n") {
		testingHandle.Fatalf("empty file should appear in the tree:\n%s", documentText)
	}
	if strings.Contains(documentText, "# File: empty.txt") {
		testingHandle.Fatalf("empty file must not produce a content block when skipping is enabled")
	}
	if !strings.Contains(documentText, "# File: full.txt") {
		testingHandle.Fatalf("non-empty file should produce a content block")
	}
}

// TestGenerateIncludeModeTreeShowsOnlySelection verifies that include mode
// builds the tree from the selected paths alone.
func TestGenerateIncludeModeTreeShowsOnlySelection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, rootDirectory, "main.py", "print(1)\n")
	writeFixtureFile(testingHandle, rootDirectory, "notes.txt", "notes\n")

	emptySpec, compileError := pattern.Compile(nil)
	if compileError != nil {
		testingHandle.Fatalf("Compile failed: %v", compileError)
	}
	includeSpec, includeError := pattern.Compile([]string{"*.py"})
	if includeError != nil {
		testingHandle.Fatalf("Compile failed: %v", includeError)
	}

	documentText, generateError := document.Generate(document.Options{
		RootDirectory: rootDirectory,
		IgnoreSpec:    emptySpec,
		IncludeSpec:   includeSpec,
		Logger:        zap.NewNop(),
	})
	if generateError != nil {
		testingHandle.Fatalf("Generate failed: %v", generateError)
	}

	if strings.Contains(documentText, "notes.txt") {
		testingHandle.Fatalf("unselected file must not appear anywhere in include mode:\n%s", documentText)
	}
	if !strings.Contains(documentText, "└── main.py\n") {
		testingHandle.Fatalf("selected file should appear in the tree:\n%s", documentText)
	}
}

// TestWriteFileCreatesParentDirectories verifies output file creation and
// atomic placement.
func TestWriteFileCreatesParentDirectories(testingHandle *testing.T) {
	baseDirectory := testingHandle.TempDir()
	destinationPath := filepath.Join(baseDirectory, "nested", "out", "document.md")

	if writeError := document.WriteFile(destinationPath, "payload\n"); writeError != nil {
		testingHandle.Fatalf("WriteFile failed: %v", writeError)
	}
	storedBytes, readError := os.ReadFile(destinationPath)
	if readError != nil {
		testingHandle.Fatalf("reading written document: %v", readError)
	}
	if string(storedBytes) != "payload\n" {
		testingHandle.Fatalf("unexpected stored content: %q", string(storedBytes))
	}

	directoryEntries, listError := os.ReadDir(filepath.Dir(destinationPath))
	if listError != nil {
		testingHandle.Fatalf("listing destination directory: %v", listError)
	}
	if len(directoryEntries) != 1 {
		testingHandle.Fatalf("no temporary files may remain, found %d entries", len(directoryEntries))
	}
}

// TestWriteFileSetsConventionalPermissions verifies that the renamed document
// carries world-readable permissions rather than the temporary file's
// restrictive mode.
func TestWriteFileSetsConventionalPermissions(testingHandle *testing.T) {
	destinationPath := filepath.Join(testingHandle.TempDir(), "document.md")

	if writeError := document.WriteFile(destinationPath, "payload\n"); writeError != nil {
		testingHandle.Fatalf("WriteFile failed: %v", writeError)
	}
	fileInfo, statError := os.Stat(destinationPath)
	if statError != nil {
		testingHandle.Fatalf("stat written document: %v", statError)
	}
	if fileInfo.Mode().Perm() != 0o644 {
		testingHandle.Fatalf("unexpected document permissions: got %v want %v", fileInfo.Mode().Perm(), os.FileMode(0o644))
	}
}

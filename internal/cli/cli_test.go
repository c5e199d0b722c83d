package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
)

// recordingCopier captures clipboard writes for inspection.
type recordingCopier struct {
	copiedText string
	copyCalls  int
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copiedText = text
	copier.copyCalls++
	return nil
}

// isolateConfiguration points configuration discovery at empty temporary
// directories so developer machines do not leak settings into tests.
func isolateConfiguration(testingHandle *testing.T) {
	testingHandle.Helper()
	testingHandle.Setenv("XDG_CONFIG_HOME", testingHandle.TempDir())
	xdg.Reload()
	testingHandle.Cleanup(xdg.Reload)
}

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

// TestRunWritesOutputFile verifies the end-to-end command path with an
// output file destination.
func TestRunWritesOutputFile(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	projectDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, projectDirectory, "main.py", "print(1)")
	writeFixtureFile(testingHandle, projectDirectory, ".gitignore", "*.log\n")
	writeFixtureFile(testingHandle, projectDirectory, "app.log", "error")

	outputPath := filepath.Join(testingHandle.TempDir(), "out.md")
	copier := &recordingCopier{}
	command := createRootCommand(zap.NewNop(), copier)
	command.SetArgs([]string{projectDirectory, "-o", outputPath})

	if executeError := command.Execute(); executeError != nil {
		testingHandle.Fatalf("command failed: %v", executeError)
	}

	documentBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("reading output document: %v", readError)
	}
	documentText := string(documentBytes)
	if !strings.HasPrefix(documentText, "Project Tree:\n") {
		testingHandle.Fatalf("document should open with the tree section header:\n%s", documentText)
	}
	if !strings.Contains(documentText, "# File: main.py\n```python\nprint(1)\n```\n") {
		testingHandle.Fatalf("missing main.py block:\n%s", documentText)
	}
	if strings.Contains(documentText, "app.log") {
		testingHandle.Fatalf("repository ignore file should exclude app.log:\n%s", documentText)
	}
	if copier.copyCalls != 0 {
		testingHandle.Fatalf("clipboard must stay untouched when only an output file is requested")
	}
}

// TestRunDefaultsToClipboard verifies that the document is copied to the
// clipboard when no output file is given.
func TestRunDefaultsToClipboard(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	projectDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, projectDirectory, "README.md", "# Hi\n")

	copier := &recordingCopier{}
	command := createRootCommand(zap.NewNop(), copier)
	command.SetArgs([]string{projectDirectory})

	if executeError := command.Execute(); executeError != nil {
		testingHandle.Fatalf("command failed: %v", executeError)
	}
	if copier.copyCalls != 1 {
		testingHandle.Fatalf("expected exactly one clipboard copy, got %d", copier.copyCalls)
	}
	if !strings.Contains(copier.copiedText, "# File: README.md") {
		testingHandle.Fatalf("clipboard content missing README.md block:\n%s", copier.copiedText)
	}
}

// TestRunIncludeModeSelectsOnlyMatches verifies the include flag switches the
// selector into include-filtered mode.
func TestRunIncludeModeSelectsOnlyMatches(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	projectDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, projectDirectory, "main.py", "print(1)\n")
	writeFixtureFile(testingHandle, projectDirectory, "notes.txt", "notes\n")

	copier := &recordingCopier{}
	command := createRootCommand(zap.NewNop(), copier)
	command.SetArgs([]string{projectDirectory, "--include", "*.py"})

	if executeError := command.Execute(); executeError != nil {
		testingHandle.Fatalf("command failed: %v", executeError)
	}
	if strings.Contains(copier.copiedText, "notes.txt") {
		testingHandle.Fatalf("include mode must exclude unmatched files:\n%s", copier.copiedText)
	}
	if !strings.Contains(copier.copiedText, "# File: main.py") {
		testingHandle.Fatalf("include mode should keep matching files:\n%s", copier.copiedText)
	}
}

// TestRunRejectsMissingPath verifies the fatal error for a path that is
// neither a directory nor a remote URL.
func TestRunRejectsMissingPath(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	command := createRootCommand(zap.NewNop(), &recordingCopier{})
	command.SetArgs([]string{filepath.Join(testingHandle.TempDir(), "absent")})
	command.SetErr(&strings.Builder{})
	command.SetOut(&strings.Builder{})

	if executeError := command.Execute(); executeError == nil {
		testingHandle.Fatalf("expected an error for a missing path")
	}
}

// TestVersionFlagPrintsVersionWithoutRunning verifies that --version prints
// and returns without requiring a path argument or touching the clipboard.
func TestVersionFlagPrintsVersionWithoutRunning(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	copier := &recordingCopier{}
	command := createRootCommand(zap.NewNop(), copier)
	command.SetArgs([]string{"--version"})
	var output strings.Builder
	command.SetOut(&output)

	if executeError := command.Execute(); executeError != nil {
		testingHandle.Fatalf("command failed: %v", executeError)
	}
	if !strings.HasPrefix(output.String(), "git2text version: ") {
		testingHandle.Fatalf("unexpected version output: %q", output.String())
	}
	if copier.copyCalls != 0 {
		testingHandle.Fatalf("version output must not reach the clipboard")
	}
}

// TestRunMalformedPatternIsFatal verifies that pattern compilation failures
// abort the run before any traversal.
func TestRunMalformedPatternIsFatal(testingHandle *testing.T) {
	isolateConfiguration(testingHandle)

	projectDirectory := testingHandle.TempDir()
	writeFixtureFile(testingHandle, projectDirectory, "main.py", "print(1)\n")

	command := createRootCommand(zap.NewNop(), &recordingCopier{})
	command.SetArgs([]string{projectDirectory, "--ignore", "[broken"})
	command.SetErr(&strings.Builder{})
	command.SetOut(&strings.Builder{})

	if executeError := command.Execute(); executeError == nil {
		testingHandle.Fatalf("expected a compile error for a malformed pattern")
	}
}

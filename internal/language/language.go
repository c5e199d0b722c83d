// Package language maps file extensions to fence tags used when rendering file content.
package language

import (
	"path/filepath"
	"strings"
)

// DefaultTag is returned for unknown or missing extensions.
const DefaultTag = "text"

// extensionToTag maps lowercase file extensions to Markdown fence tags.
var extensionToTag = map[string]string{
	".abap":       "abap",
	".ads":        "ada",
	".adb":        "ada",
	".as":         "actionscript",
	".asciidoc":   "asciidoc",
	".adoc":       "asciidoc",
	".asm":        "assembly",
	".s":          "assembly",
	".ahk":        "autohotkey",
	".bat":        "batch",
	".bats":       "batch",
	".c":          "c",
	".h":          "c",
	".cs":         "csharp",
	".clj":        "clojure",
	".cljs":       "clojure",
	".coffee":     "coffeescript",
	".cpp":        "cpp",
	".hpp":        "cpp",
	".cc":         "cpp",
	".cxx":        "cpp",
	".css":        "css",
	".d":          "d",
	".dart":       "dart",
	".diff":       "diff",
	".patch":      "diff",
	".dockerfile": "dockerfile",
	".ex":         "elixir",
	".exs":        "elixir",
	".elm":        "elm",
	".erl":        "erlang",
	".hrl":        "erlang",
	".go":         "go",
	".groovy":     "groovy",
	".gradle":     "groovy",
	".hs":         "haskell",
	".lhs":        "haskell",
	".html":       "html",
	".htm":        "html",
	".xhtml":      "html",
	".hbs":        "handlebars",
	".ini":        "ini",
	".java":       "java",
	".js":         "javascript",
	".jsx":        "javascript",
	".json":       "json",
	".jl":         "julia",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".less":       "less",
	".lua":        "lua",
	".md":         "markdown",
	".mkd":        "markdown",
	".matlab":     "matlab",
	".m":          "matlab",
	".nix":        "nix",
	".mli":        "ocaml",
	".ml":         "ocaml",
	".php":        "php",
	".pl":         "perl",
	".pm":         "perl",
	".ps1":        "powershell",
	".psm1":       "powershell",
	".proto":      "protobuf",
	".py":         "python",
	".r":          "r",
	".rb":         "ruby",
	".rs":         "rust",
	".sass":       "sass",
	".scss":       "scss",
	".scala":      "scala",
	".sh":         "bash",
	".bash":       "bash",
	".sql":        "sql",
	".swift":      "swift",
	".tex":        "tex",
	".toml":       "toml",
	".ts":         "typescript",
	".tsx":        "typescript",
	".vb":         "vbnet",
	".xml":        "xml",
	".yaml":       "yaml",
	".yml":        "yaml",
	".zig":        "zig",
}

// Classify returns the fence tag for the file at the provided path.
// Extension comparison is case-insensitive; unknown extensions map to DefaultTag.
func Classify(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	if tag, known := extensionToTag[extension]; known {
		return tag
	}
	return DefaultTag
}

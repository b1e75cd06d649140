package gitrepo

import (
	"path/filepath"
	"strings"
)

// isSkippedDir returns true if the directory should be skipped
func isSkippedDir(name string) bool {
	skipDirs := map[string]bool{
		"node_modules":  true,
		"vendor":        true,
		"dist":          true,
		"build":         true,
		"target":        true,
		"__pycache__":   true,
		"coverage":      true,
		"bin":           true,
		"obj":           true,
		"venv":          true,
		"env":           true,
		"deps":          true,
		"_deps":         true,
		"third_party":   true,
		"external":      true,
		"packages":      true,
		"out":           true,
		"output":        true,
		"cmake-build":   true,
	}
	return skipDirs[name]
}

// isIndexableFile returns true if the file should be analyzed
func isIndexableFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	codeExtensions := map[string]bool{
		".go":      true,
		".py":      true,
		".js":      true,
		".ts":      true,
		".jsx":     true,
		".tsx":     true,
		".rs":      true,
		".java":    true,
		".kt":      true,
		".scala":   true,
		".c":       true,
		".cpp":     true,
		".cc":      true,
		".cxx":     true,
		".h":       true,
		".hpp":     true,
		".cs":      true,
		".rb":      true,
		".php":     true,
		".swift":   true,
		".lua":     true,
		".pl":      true,
		".r":       true,
		".jl":      true,
		".ex":      true,
		".exs":     true,
		".erl":     true,
		".clj":     true,
		".hs":      true,
		".ml":      true,
		".dart":    true,
		".elm":     true,
		".vue":     true,
		".svelte":  true,
		".sql":     true,
		".sh":      true,
		".bash":    true,
		".zsh":     true,
		".ps1":     true,
		".bat":     true,
		".yaml":    true,
		".yml":     true,
		".toml":    true,
		".json":    true,
		".xml":     true,
		".html":    true,
		".css":     true,
		".scss":    true,
		".md":      true,
		".rst":     true,
		".txt":     true,
		".proto":   true,
		".graphql": true,
		".tf":      true,
		".nix":     true,
		".zig":     true,
		".nim":     true,
	}

	return codeExtensions[ext]
}

// DetectLanguage returns the language tag for a file path based on extension,
// or "" when unknown. The tag doubles as the fence label in rendered prompts.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	languageMap := map[string]string{
		".go":      "go",
		".py":      "python",
		".js":      "javascript",
		".ts":      "typescript",
		".jsx":     "javascript",
		".tsx":     "typescript",
		".rs":      "rust",
		".java":    "java",
		".kt":      "kotlin",
		".scala":   "scala",
		".c":       "c",
		".cpp":     "cpp",
		".cc":      "cpp",
		".cxx":     "cpp",
		".h":       "c",
		".hpp":     "cpp",
		".cs":      "csharp",
		".rb":      "ruby",
		".php":     "php",
		".swift":   "swift",
		".lua":     "lua",
		".pl":      "perl",
		".r":       "r",
		".jl":      "julia",
		".ex":      "elixir",
		".exs":     "elixir",
		".erl":     "erlang",
		".clj":     "clojure",
		".hs":      "haskell",
		".ml":      "ocaml",
		".dart":    "dart",
		".elm":     "elm",
		".vue":     "vue",
		".svelte":  "svelte",
		".sql":     "sql",
		".sh":      "shell",
		".bash":    "shell",
		".zsh":     "shell",
		".ps1":     "powershell",
		".bat":     "batch",
		".yaml":    "yaml",
		".yml":     "yaml",
		".toml":    "toml",
		".json":    "json",
		".xml":     "xml",
		".html":    "html",
		".css":     "css",
		".scss":    "scss",
		".md":      "markdown",
		".rst":     "rst",
		".txt":     "text",
		".proto":   "protobuf",
		".graphql": "graphql",
		".tf":      "terraform",
		".nix":     "nix",
		".zig":     "zig",
		".nim":     "nim",
	}

	return languageMap[ext]
}

package config

// Defaults applied by loaders when a setting is omitted.
const (
	DefaultIndent         = "  "
	DefaultEncoding       = "utf-8"
	DefaultExtension      = ".js"
	DefaultStylesheetGlob = "**/*.css"
	DefaultPortMin        = 5173
	DefaultPortMax        = 5200
)

// DefaultScriptGlobs returns the script patterns scanned for stylesheet imports.
func DefaultScriptGlobs() []string {
	return []string{"src/**/*.js", "src/**/*.jsx"}
}

// DefaultDevCommand returns the command that starts the development server.
func DefaultDevCommand() []string {
	return []string{"npm", "run", "dev"}
}

// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from a file.
//
// The Model names every job the commands run: the blocks to extract and
// where they go, the stylesheet audit scope, class rename maps, the
// generated files whose indentation is checked and the dev server port
// range. Nothing about the project layout is hard-coded in the commands.
// The concrete HCL implementation lives in the hcl package.
package config

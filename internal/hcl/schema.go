package hcl

import "github.com/hashicorp/hcl/v2"

// rootSchema lists the top-level blocks of a config file.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "extract", LabelNames: []string{"name"}},
		{Type: "css_audit"},
		{Type: "class_rename", LabelNames: []string{"name"}},
		{Type: "indent"},
		{Type: "dev_server"},
	},
}

// extractBlock represents an `extract "<name>"` block.
type extractBlock struct {
	Source    string   `hcl:"source"`
	Object    string   `hcl:"object"`
	OutputDir string   `hcl:"output_dir"`
	Blocks    []string `hcl:"blocks"`
	Indent    *string  `hcl:"indent,optional"`
	Encoding  string   `hcl:"encoding,optional"`
	Naive     bool     `hcl:"naive,optional"`
	Reindent  bool     `hcl:"reindent,optional"`
}

// cssAuditBlock represents the `css_audit` block.
type cssAuditBlock struct {
	StylesheetRoot string   `hcl:"stylesheet_root"`
	Stylesheets    string   `hcl:"stylesheets,optional"`
	Scripts        []string `hcl:"scripts,optional"`
}

// classRenameBlock represents a `class_rename "<name>"` block. Renames is
// kept as an expression so its keys can be arbitrary strings.
type classRenameBlock struct {
	Files   []string       `hcl:"files"`
	Renames hcl.Expression `hcl:"renames"`
}

// indentBlock represents the `indent` block.
type indentBlock struct {
	Dir       string   `hcl:"dir"`
	Files     []string `hcl:"files,optional"`
	Extension string   `hcl:"extension,optional"`
	Indent    *string  `hcl:"indent,optional"`
}

// devServerBlock represents the `dev_server` block.
type devServerBlock struct {
	PortMin int      `hcl:"port_min,optional"`
	PortMax int      `hcl:"port_max,optional"`
	Command []string `hcl:"command,optional"`
}

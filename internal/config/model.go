package config

import (
	"errors"
	"fmt"
	"sort"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Extract      []*ExtractJob
	CSSAudit     *CSSAudit
	ClassRenames []*ClassRenameJob
	Indent       *Indent
	DevServer    *DevServer

	// Origin is the file the model was read from, empty for the built-in defaults.
	Origin string
}

// ExtractJob splits one enclosing object literal into one file per block.
type ExtractJob struct {
	Name      string
	Source    string   // file holding the enclosing object
	Object    string   // name of the enclosing declaration, e.g. TYPE_DESCRIPTIONS
	OutputDir string   // one <block>.js file per block is written here
	Blocks    []string // expected top-level keys, in output order
	Indent    string
	Encoding  string
	Naive     bool // count braces inside strings and comments too
	Reindent  bool // shift every line, not only the first
}

// CSSAudit scopes the unused stylesheet detection.
type CSSAudit struct {
	StylesheetRoot string   // stylesheets are reported relative to this directory
	Stylesheets    string   // glob relative to StylesheetRoot
	Scripts        []string // globs relative to the project root
}

// ClassRenameJob renames class names across a set of markup and stylesheet files.
type ClassRenameJob struct {
	Name    string
	Files   []string
	Renames map[string]string
}

// Indent describes the generated files whose first property is checked.
type Indent struct {
	Dir       string
	Files     []string // file stems; empty means every file with Extension in Dir
	Extension string
	Indent    string
}

// DevServer describes the development server relaunched by the dev command.
type DevServer struct {
	PortMin int
	PortMax int
	Command []string
}

// ExtractJobs returns the job named name, or every job when name is empty.
func (m *Model) ExtractJobs(name string) ([]*ExtractJob, error) {
	if name == "" {
		return m.Extract, nil
	}
	for _, job := range m.Extract {
		if job.Name == name {
			return []*ExtractJob{job}, nil
		}
	}
	return nil, fmt.Errorf("no extract job named %q", name)
}

// ClassRenameJobs returns the job named name, or every job when name is empty.
func (m *Model) ClassRenameJobs(name string) ([]*ClassRenameJob, error) {
	if name == "" {
		return m.ClassRenames, nil
	}
	for _, job := range m.ClassRenames {
		if job.Name == name {
			return []*ClassRenameJob{job}, nil
		}
	}
	return nil, fmt.Errorf("no class_rename job named %q", name)
}

// Merge returns a model where every section set in over replaces the same
// section of m.
func (m *Model) Merge(over *Model) *Model {
	merged := *m
	if len(over.Extract) > 0 {
		merged.Extract = over.Extract
	}
	if over.CSSAudit != nil {
		merged.CSSAudit = over.CSSAudit
	}
	if len(over.ClassRenames) > 0 {
		merged.ClassRenames = over.ClassRenames
	}
	if over.Indent != nil {
		merged.Indent = over.Indent
	}
	if over.DevServer != nil {
		merged.DevServer = over.DevServer
	}
	merged.Origin = over.Origin
	return &merged
}

// Validate checks the invariants the commands rely on.
func (m *Model) Validate() error {
	var errs []error

	seen := make(map[string]bool)
	for _, job := range m.Extract {
		if seen[job.Name] {
			errs = append(errs, fmt.Errorf("extract %q: duplicate job name", job.Name))
		}
		seen[job.Name] = true
		errs = append(errs, job.validate())
	}

	seen = make(map[string]bool)
	for _, job := range m.ClassRenames {
		if seen[job.Name] {
			errs = append(errs, fmt.Errorf("class_rename %q: duplicate job name", job.Name))
		}
		seen[job.Name] = true
		errs = append(errs, job.validate())
	}

	if m.Indent != nil && m.Indent.Indent == "" {
		errs = append(errs, errors.New("indent: indent must not be empty"))
	}

	if d := m.DevServer; d != nil {
		if d.PortMin <= 0 || d.PortMax > 65535 || d.PortMin > d.PortMax {
			errs = append(errs, fmt.Errorf("dev_server: invalid port range %d-%d", d.PortMin, d.PortMax))
		}
		if len(d.Command) == 0 {
			errs = append(errs, errors.New("dev_server: command must not be empty"))
		}
	}

	return errors.Join(errs...)
}

func (j *ExtractJob) validate() error {
	var errs []error
	if j.Source == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if j.Object == "" {
		errs = append(errs, errors.New("object is required"))
	}
	if j.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if len(j.Blocks) == 0 {
		errs = append(errs, errors.New("blocks must not be empty"))
	}
	seen := make(map[string]bool, len(j.Blocks))
	for _, b := range j.Blocks {
		if seen[b] {
			errs = append(errs, fmt.Errorf("block %q listed twice", b))
		}
		seen[b] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("extract %q: %w", j.Name, err)
	}
	return nil
}

func (j *ClassRenameJob) validate() error {
	var errs []error
	if len(j.Files) == 0 {
		errs = append(errs, errors.New("files must not be empty"))
	}
	for _, old := range j.SortedNames() {
		if j.Renames[old] == "" {
			errs = append(errs, fmt.Errorf("rename of %q has an empty target", old))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("class_rename %q: %w", j.Name, err)
	}
	return nil
}

// SortedNames returns the class names being renamed in lexical order.
func (j *ClassRenameJob) SortedNames() []string {
	names := make([]string, 0, len(j.Renames))
	for old := range j.Renames {
		names = append(names, old)
	}
	sort.Strings(names)
	return names
}

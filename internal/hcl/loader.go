package hcl

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/mbtitools/internal/config"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
)

//go:embed default.hcl
var defaultConfig []byte

const defaultConfigName = "<built-in>/default.hcl"

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads the built-in defaults and, when path is not empty, the config
// file at path. Every section the file defines replaces the built-in one.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model, err := l.loadBytes(ctx, defaultConfig, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in config: %w", err)
	}

	if path != "" {
		logger.Debug("Loading config file.", "path", path)
		file, diags := l.parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
		}
		over, err := l.translate(ctx, file.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
		over.Origin = path
		model = model.Merge(over)
	} else {
		logger.Debug("No config file given, using built-in defaults.")
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded.",
		"origin", model.Origin,
		"extract_jobs", len(model.Extract),
		"class_rename_jobs", len(model.ClassRenames),
	)
	return model, nil
}

// LoadBytes parses src as a config file named filename, without merging the
// built-in defaults.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	return l.loadBytes(ctx, src, filename)
}

func (l *Loader) loadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	return l.translate(ctx, file.Body)
}

// translate decodes every top-level block into the agnostic model.
func (l *Loader) translate(ctx context.Context, body hcl.Body) (*config.Model, error) {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	evalCtx := newEvalContext()
	model := &config.Model{}

	extractSeen := make(map[string]hcl.Range)
	for _, block := range content.Blocks.OfType("extract") {
		if prev, dup := extractSeen[block.Labels[0]]; dup {
			return nil, hcl.Diagnostics{duplicateLabel(block, prev)}
		}
		extractSeen[block.Labels[0]] = block.DefRange
		job, err := translateExtract(block, evalCtx)
		if err != nil {
			return nil, err
		}
		model.Extract = append(model.Extract, job)
	}

	renameSeen := make(map[string]hcl.Range)
	for _, block := range content.Blocks.OfType("class_rename") {
		if prev, dup := renameSeen[block.Labels[0]]; dup {
			return nil, hcl.Diagnostics{duplicateLabel(block, prev)}
		}
		renameSeen[block.Labels[0]] = block.DefRange
		job, err := translateClassRename(ctx, block, evalCtx)
		if err != nil {
			return nil, err
		}
		model.ClassRenames = append(model.ClassRenames, job)
	}

	if block, diags := findUniqueBlock(content.Blocks, "css_audit"); diags.HasErrors() {
		return nil, diags
	} else if block != nil {
		var b cssAuditBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &b); diags.HasErrors() {
			return nil, diags
		}
		model.CSSAudit = &config.CSSAudit{
			StylesheetRoot: b.StylesheetRoot,
			Stylesheets:    orDefault(b.Stylesheets, config.DefaultStylesheetGlob),
			Scripts:        b.Scripts,
		}
		if len(model.CSSAudit.Scripts) == 0 {
			model.CSSAudit.Scripts = config.DefaultScriptGlobs()
		}
	}

	if block, diags := findUniqueBlock(content.Blocks, "indent"); diags.HasErrors() {
		return nil, diags
	} else if block != nil {
		var b indentBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &b); diags.HasErrors() {
			return nil, diags
		}
		model.Indent = &config.Indent{
			Dir:       b.Dir,
			Files:     b.Files,
			Extension: orDefault(b.Extension, config.DefaultExtension),
			Indent:    indentOrDefault(b.Indent),
		}
	}

	if block, diags := findUniqueBlock(content.Blocks, "dev_server"); diags.HasErrors() {
		return nil, diags
	} else if block != nil {
		var b devServerBlock
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &b); diags.HasErrors() {
			return nil, diags
		}
		model.DevServer = &config.DevServer{
			PortMin: b.PortMin,
			PortMax: b.PortMax,
			Command: b.Command,
		}
		if model.DevServer.PortMin == 0 {
			model.DevServer.PortMin = config.DefaultPortMin
		}
		if model.DevServer.PortMax == 0 {
			model.DevServer.PortMax = config.DefaultPortMax
		}
		if len(model.DevServer.Command) == 0 {
			model.DevServer.Command = config.DefaultDevCommand()
		}
	}

	return model, nil
}

func translateExtract(block *hcl.Block, evalCtx *hcl.EvalContext) (*config.ExtractJob, error) {
	var b extractBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &b); diags.HasErrors() {
		return nil, diags
	}
	return &config.ExtractJob{
		Name:      block.Labels[0],
		Source:    b.Source,
		Object:    b.Object,
		OutputDir: b.OutputDir,
		Blocks:    b.Blocks,
		Indent:    indentOrDefault(b.Indent),
		Encoding:  orDefault(b.Encoding, config.DefaultEncoding),
		Naive:     b.Naive,
		Reindent:  b.Reindent,
	}, nil
}

func translateClassRename(ctx context.Context, block *hcl.Block, evalCtx *hcl.EvalContext) (*config.ClassRenameJob, error) {
	var b classRenameBlock
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &b); diags.HasErrors() {
		return nil, diags
	}
	var renames map[string]string
	if err := decodeExpression(ctx, b.Renames, evalCtx, &renames); err != nil {
		return nil, fmt.Errorf("class_rename %q: renames: %w", block.Labels[0], err)
	}
	return &config.ClassRenameJob{
		Name:    block.Labels[0],
		Files:   b.Files,
		Renames: renames,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func indentOrDefault(v *string) string {
	if v == nil {
		return config.DefaultIndent
	}
	return *v
}

package hcl

import "github.com/hashicorp/hcl/v2"

// findUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks.OfType(name) {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed; the first one is at " + found.DefRange.String() + ".",
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		found = block
	}

	return found, diags
}

// duplicateLabel returns a diagnostic when a labelled block reuses a label.
func duplicateLabel(block *hcl.Block, previous hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Duplicate \"" + block.Type + "\" block",
		Detail:   "A \"" + block.Type + "\" block named \"" + block.Labels[0] + "\" was already defined at " + previous.String() + ".",
		Subject:  block.DefRange.Ptr(),
	}
}

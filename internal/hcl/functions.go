package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// newEvalContext returns the evaluation context for config expressions: a
// small set of go-cty stdlib functions, e.g. blocks = sort(concat(a, b)).
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"concat":   stdlib.ConcatFunc,
			"format":   stdlib.FormatFunc,
			"join":     stdlib.JoinFunc,
			"split":    stdlib.SplitFunc,
			"sort":     stdlib.SortFunc,
			"distinct": stdlib.DistinctFunc,
		},
	}
}

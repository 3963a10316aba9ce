package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/mbtitools/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeExpression evaluates expr and decodes the result into the Go value
// that target points to.
func decodeExpression(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext, target any) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return fmt.Errorf("%s: value must not be null", expr.Range())
	}
	if !val.IsWhollyKnown() {
		return fmt.Errorf("%s: value is not known", expr.Range())
	}
	if err := decode(ctx, val, target); err != nil {
		return fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return nil
}

// decode handles the conversion and decoding of a cty.Value into a Go pointer.
func decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr || valPtr.IsNil() {
		return fmt.Errorf("target for decoding must be a non-nil pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", valPtr.Elem().Type().String(), "error", err)
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	if !val.Type().Equals(convertedVal.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", convertedVal.Type().FriendlyName(),
		)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

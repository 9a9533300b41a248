package declare

import (
	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/encoder"
	"github.com/reoring/goshape/guard"
	"github.com/reoring/goshape/provider"
	"github.com/reoring/goshape/value"
)

// OptionID identifies Option declarations.
var OptionID = newID("Option")

// Option is either absent (null or undefined, decoded to nil) or an item.
func Option(item ast.Node) *ast.TypeAliasDeclaration {
	return ast.Declare(OptionID, optionProvider, []ast.Node{item}, ast.NewUnion(ast.NewLiteral(nil), item))
}

func none(v any) bool { return v == nil || value.IsUndefined(v) }

var optionProvider = provider.CombineAll(
	provider.Make(decoder.Kind, OptionID, func(args ...any) any {
		item := args[0].(decoder.Decoder[any])
		return decoder.Make(func(v any) decoder.Result[any] {
			if none(v) {
				return decoder.Succeed[any](nil)
			}
			return item.Decode(v)
		})
	}),
	provider.Make(guard.Kind, OptionID, func(args ...any) any {
		item := args[0].(guard.Guard)
		return guard.Guard(func(v any) bool { return none(v) || item(v) })
	}),
	provider.Make(encoder.Kind, OptionID, optionEncoder),
	provider.Make(encoder.JSONKind, OptionID, optionEncoder),
)

func optionEncoder(args ...any) any {
	item := args[0].(encoder.Encoder)
	return encoder.Encoder(func(v any) any {
		if none(v) {
			return nil
		}
		return item(v)
	})
}

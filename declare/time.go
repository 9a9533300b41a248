package declare

import (
	"time"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
	"github.com/reoring/goshape/encoder"
	"github.com/reoring/goshape/guard"
	"github.com/reoring/goshape/provider"
)

// TimeID identifies Time declarations.
var TimeID = newID("Time")

// TimeRFC3339 is a string in RFC 3339 format decoded to time.Time and encoded
// back in canonical UTC form.
func TimeRFC3339() *ast.TypeAliasDeclaration { return Time(time.RFC3339Nano) }

// Time is a string in the given layout decoded to time.Time. The layout is
// carried as the declaration's config.
func Time(layout string) *ast.TypeAliasDeclaration {
	return ast.DeclareWithConfig(TimeID, layout, timeProvider, nil, ast.StringKeyword)
}

var timeProvider = provider.CombineAll(
	provider.Make(decoder.Kind, TimeID, configured(func(layout string) any { return timeDecoder(layout) })),
	provider.Make(guard.Kind, TimeID, configured(func(string) any {
		return guard.Guard(func(v any) bool { _, ok := v.(time.Time); return ok })
	})),
	provider.Make(encoder.Kind, TimeID, configured(func(layout string) any { return timeEncoder(layout) })),
	provider.Make(encoder.JSONKind, TimeID, configured(func(layout string) any { return timeEncoder(layout) })),
)

// configured adapts a layout-taking constructor to the two-step handler
// protocol of configured declarations.
func configured(build func(layout string) any) provider.Handler {
	return func(config ...any) any {
		layout, _ := config[0].(string)
		return provider.Handler(func(...any) any { return build(layout) })
	}
}

func timeDecoder(layout string) decoder.Decoder[any] {
	return decoder.Erase(decoder.Compose(decoder.String, func(s string) decoder.Result[time.Time] {
		t, err := parseTime(layout, s)
		if err != nil {
			return decoder.Fail[time.Time](decoder.CustomError("time in layout "+layout, err))
		}
		return decoder.Succeed(t)
	}))
}

func parseTime(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil && layout == time.RFC3339Nano {
		// RFC3339 without fractional seconds is accepted as well
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
	}
	return t, err
}

func timeEncoder(layout string) encoder.Encoder {
	return func(v any) any {
		t, ok := v.(time.Time)
		if !ok {
			return v
		}
		if layout == time.RFC3339Nano {
			t = t.UTC()
		}
		return t.Format(layout)
	}
}

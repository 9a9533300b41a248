package main

import (
	"slices"

	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/declare"
	"github.com/reoring/goshape/dsl"
)

type entry struct {
	summary string
	node    ast.Node
}

func field(key string, n ast.Node) ast.Field    { return ast.NewField(key, n, false, false) }
func optional(key string, n ast.Node) ast.Field { return ast.NewField(key, n, true, false) }

func newCatalog() map[string]entry {
	var list ast.Node
	list = ast.NewStruct([]ast.Field{
		field("value", ast.NumberKeyword),
		field("next", declare.Option(ast.NewLazy(func() ast.Node { return list }))),
	}, ast.IndexSignatures{})

	return map[string]entry{
		"person": {"a named person with optional contact data", ast.NewStruct([]ast.Field{
			field("name", ast.StringKeyword),
			optional("age", ast.NumberKeyword),
			optional("email", declare.Option(ast.StringKeyword)),
			optional("tags", declare.Set(ast.StringKeyword)),
		}, ast.IndexSignatures{})},
		"event": {"a timestamped event with free-form labels", dsl.Object().
			Field("name", dsl.String()).Required().
			Field("at", declare.TimeRFC3339()).Required().
			Field("labels", dsl.Object().Rest(dsl.String()).Build()).Required().
			Build()},
		"list": {"a linked list of numbers", list},
		"geometry": {"a circle, square or rectangle selected by kind", dsl.Discriminated("kind",
			dsl.Variant("circle", dsl.Object().Field("radius", dsl.Number()).Required()),
			dsl.Variant("square", dsl.Object().Field("side", dsl.Number()).Required()),
			dsl.Variant("rect", dsl.Object().Field("width", dsl.Number()).Required().Field("height", dsl.Number()).Required()),
		)},
		"point": {"two or more coordinates", ast.NewTuple([]ast.Component{
			ast.NewComponent(ast.NumberKeyword, false),
			ast.NewComponent(ast.NumberKeyword, false),
		}, ast.NumberKeyword, true)},
	}
}

func catalogNames(c map[string]entry) []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

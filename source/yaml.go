package source

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	eng "github.com/reoring/goshape/internal/engine"
)

// YAML decodes the first document of a YAML stream. An empty stream decodes
// to nil.
func YAML(b []byte, opts ...Option) (any, error) {
	docs, err := yamlDocuments(b, 1, opts)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

// YAMLDocuments decodes every document of a YAML stream.
func YAMLDocuments(b []byte, opts ...Option) ([]any, error) {
	return yamlDocuments(b, -1, opts)
}

func yamlDocuments(b []byte, limit int, opts []Option) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	o := options(opts)
	var out []any
	for limit < 0 || len(out) < limit {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "decode yaml")
		}
		src := &yamlSource{aliasLimit: o.maxAliasTokens, aliasStart: -1}
		if err := src.walk(&doc, map[*yaml.Node]bool{}); err != nil {
			return nil, errors.Wrapf(err, "decode yaml document %d", len(out))
		}
		v, err := eng.Build(src, o.Options)
		if err != nil {
			return nil, errors.Wrapf(err, "decode yaml document %d", len(out))
		}
		out = append(out, v)
	}
	return out, nil
}

// yamlSource replays a YAML node tree as engine tokens, so that YAML input
// gets the same number handling and limits as JSON.
type yamlSource struct {
	toks []eng.Token
	pos  int

	aliasLimit int
	// aliased counts tokens produced by finished top-level alias expansions;
	// aliasStart is the token index where the current one began, or -1.
	aliased    int
	aliasStart int
}

// AliasLimitError reports a YAML document whose aliases expand beyond the
// configured token limit.
type AliasLimitError struct {
	Line  int
	Limit int
}

func (e *AliasLimitError) Error() string {
	return fmt.Sprintf("line %d: alias expansion exceeds %d values", e.Line, e.Limit)
}

func (s *yamlSource) checkAliases(n *yaml.Node) error {
	if s.aliasLimit <= 0 {
		return nil
	}
	spent := s.aliased
	if s.aliasStart >= 0 {
		spent += len(s.toks) - s.aliasStart
	}
	if spent > s.aliasLimit {
		return &AliasLimitError{Line: n.Line, Limit: s.aliasLimit}
	}
	return nil
}

func (s *yamlSource) NextToken() (eng.Token, error) {
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *yamlSource) Location() int64 { return -1 }

func (s *yamlSource) emit(t eng.Token) { s.toks = append(s.toks, t) }

func (s *yamlSource) walk(n *yaml.Node, active map[*yaml.Node]bool) error {
	off := int64(n.Line)
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			s.emit(eng.Token{Kind: eng.KindNull, Offset: off})
			return nil
		}
		return s.walk(n.Content[0], active)
	case yaml.AliasNode:
		if active[n.Alias] {
			return errors.Errorf("line %d: recursive alias %q", n.Line, n.Value)
		}
		if err := s.checkAliases(n); err != nil {
			return err
		}
		outer := s.aliasStart < 0
		if outer {
			s.aliasStart = len(s.toks)
		}
		active[n.Alias] = true
		err := s.walk(n.Alias, active)
		delete(active, n.Alias)
		if outer {
			s.aliased += len(s.toks) - s.aliasStart
			s.aliasStart = -1
		}
		if err != nil {
			return err
		}
		return s.checkAliases(n)
	case yaml.SequenceNode:
		s.emit(eng.Token{Kind: eng.KindBeginArray, Offset: off})
		for _, c := range n.Content {
			if err := s.walk(c, active); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndArray, Offset: off})
		return nil
	case yaml.MappingNode:
		s.emit(eng.Token{Kind: eng.KindBeginObject, Offset: off})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: non-scalar mapping key", k.Line)
			}
			s.emit(eng.Token{Kind: eng.KindKey, String: k.Value, Offset: int64(k.Line)})
			if err := s.walk(n.Content[i+1], active); err != nil {
				return err
			}
		}
		s.emit(eng.Token{Kind: eng.KindEndObject, Offset: off})
		return nil
	case yaml.ScalarNode:
		t, err := scalar(n)
		if err != nil {
			return err
		}
		t.Offset = off
		s.emit(t)
		return nil
	}
	return errors.Errorf("line %d: unsupported yaml node", n.Line)
}

func scalar(n *yaml.Node) (eng.Token, error) {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindBool, Bool: b}, nil
	case "!!int":
		i, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0)
		if !ok {
			return eng.Token{}, errors.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return eng.Token{Kind: eng.KindNumber, Number: i.String()}, nil
	case "!!float":
		f, err := yamlFloat(n.Value)
		if err != nil {
			return eng.Token{}, errors.Wrapf(err, "line %d", n.Line)
		}
		return eng.Token{Kind: eng.KindNumber, Number: f}, nil
	}
	return eng.Token{Kind: eng.KindString, String: n.Value}, nil
}

// yamlFloat rewrites YAML float spellings (.inf, .nan) into ones strconv
// understands.
func yamlFloat(s string) (string, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return "+Inf", nil
	case "-.inf":
		return "-Inf", nil
	case ".nan":
		return "NaN", nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", err
	}
	return s, nil
}

package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vanshika/dronepath/internal/domain"
)

// Format identifies an on-disk adjacency encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrMalformedGraph indicates an adjacency document that cannot be decoded.
var ErrMalformedGraph = errors.New("malformed graph description")

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported graph file extension %q", filepath.Ext(path))
	}
}

// Decode reads an adjacency document of the form {node: {neighbour: weight}}.
// Key order in the document becomes node and edge order in the graph.
func Decode(r io.Reader, format Format) (domain.Graph, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatTOML:
		return decodeTOML(r)
	default:
		return domain.Graph{}, fmt.Errorf("unsupported graph format %q", format)
	}
}

func decodeJSON(r io.Reader) (domain.Graph, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return domain.Graph{}, err
	}

	var g domain.Graph
	for dec.More() {
		label, err := stringToken(dec)
		if err != nil {
			return domain.Graph{}, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return domain.Graph{}, fmt.Errorf("node %s: %w", label, err)
		}

		node := domain.Node{Label: label}
		for dec.More() {
			to, err := stringToken(dec)
			if err != nil {
				return domain.Graph{}, err
			}
			tok, err := dec.Token()
			if err != nil {
				return domain.Graph{}, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
			}
			num, ok := tok.(json.Number)
			if !ok {
				return domain.Graph{}, fmt.Errorf("%w: weight %s -> %s is not a number", ErrMalformedGraph, label, to)
			}
			w, err := parseWeight(num.String())
			if err != nil {
				return domain.Graph{}, fmt.Errorf("%w: weight %s -> %s: %v", ErrMalformedGraph, label, to, err)
			}
			node.Edges = append(node.Edges, domain.Edge{To: to, Weight: w})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return domain.Graph{}, err
		}
		g.Nodes = append(g.Nodes, node)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return domain.Graph{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Graph{}, fmt.Errorf("%w: trailing data after graph", ErrMalformedGraph)
	}
	return g, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedGraph, want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected key, got %v", ErrMalformedGraph, tok)
	}
	return s, nil
}

func parseWeight(raw string) (int, error) {
	w, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return w, nil
}

func decodeYAML(r io.Reader) (domain.Graph, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Graph{}, nil
		}
		return domain.Graph{}, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return domain.Graph{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return domain.Graph{}, fmt.Errorf("%w: top level must be a mapping (line %d)", ErrMalformedGraph, root.Line)
	}

	var g domain.Graph
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		node := domain.Node{Label: key.Value}

		switch {
		case val.Kind == yaml.MappingNode:
			for j := 0; j+1 < len(val.Content); j += 2 {
				to, weight := val.Content[j], val.Content[j+1]
				w, err := parseWeight(weight.Value)
				if weight.Kind != yaml.ScalarNode || err != nil {
					return domain.Graph{}, fmt.Errorf("%w: weight %s -> %s (line %d)", ErrMalformedGraph, key.Value, to.Value, weight.Line)
				}
				node.Edges = append(node.Edges, domain.Edge{To: to.Value, Weight: w})
			}
		case val.Kind == yaml.ScalarNode && (val.Tag == "!!null" || val.Value == ""):
			// "D:" or "D: {}" both declare a node without edges.
		default:
			return domain.Graph{}, fmt.Errorf("%w: node %s must map neighbours to weights (line %d)", ErrMalformedGraph, key.Value, val.Line)
		}
		g.Nodes = append(g.Nodes, node)
	}
	return g, nil
}

func decodeTOML(r io.Reader) (domain.Graph, error) {
	var raw map[string]map[string]int
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}

	var g domain.Graph
	pos := make(map[string]int, len(raw))
	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			pos[key[0]] = len(g.Nodes)
			g.Nodes = append(g.Nodes, domain.Node{Label: key[0]})
		case 2:
			i, ok := pos[key[0]]
			if !ok {
				continue
			}
			g.Nodes[i].Edges = append(g.Nodes[i].Edges, domain.Edge{To: key[1], Weight: raw[key[0]][key[1]]})
		}
	}
	return g, nil
}

// Encode writes g in the requested format, preserving node and edge order.
func Encode(w io.Writer, g domain.Graph, format Format) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, g)
	case FormatYAML:
		return encodeYAML(w, g)
	case FormatTOML:
		return encodeTOML(w, g)
	default:
		return fmt.Errorf("unsupported graph format %q", format)
	}
}

func encodeJSON(w io.Writer, g domain.Graph) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, n := range g.Nodes {
		label, _ := json.Marshal(n.Label)
		fmt.Fprintf(&buf, "  %s: {", label)
		for j, e := range n.Edges {
			to, _ := json.Marshal(e.To)
			if j > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s: %d", to, e.Weight)
		}
		buf.WriteString("}")
		if i < len(g.Nodes)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func encodeYAML(w io.Writer, g domain.Graph) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range g.Nodes {
		edges := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, e := range n.Edges {
			edges.Content = append(edges.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: e.To},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.Weight)},
			)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: n.Label}, edges)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func encodeTOML(w io.Writer, g domain.Graph) error {
	var buf bytes.Buffer
	for i, n := range g.Nodes {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "[%s]\n", tomlKey(n.Label))
		for _, e := range n.Edges {
			fmt.Fprintf(&buf, "%s = %d\n", tomlKey(e.To), e.Weight)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func tomlKey(k string) string {
	for _, r := range k {
		if !(r == '_' || r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return strconv.Quote(k)
		}
	}
	return k
}

package xsd

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/makinacorpus/xsdgen/lib/ir"
)

// NodeID identifies an element in the document arena.
type NodeID int

// InvalidNode represents an invalid node reference.
const InvalidNode NodeID = -1

// Document is a compact element tree. Unlike encoding/xml's unmarshalling it
// keeps raw prefixes, since QName attribute values ("tns:Address") have to be
// resolved against the xmlns declarations in scope, and the line of every
// element for diagnostics.
type Document struct {
	File  string
	nodes []node
	root  NodeID
}

type node struct {
	prefix   string
	local    string
	attrs    []Attr
	children []NodeID
	parent   NodeID
	line     int
	text     []byte
}

// Attr is a raw attribute; Prefix is "xmlns" for namespace declarations.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// ParseDocument reads the whole element tree from r. Any syntax error is
// reported as a ReaderError.
func ParseDocument(r io.Reader, file string) (*Document, error) {
	doc := &Document{File: file, root: InvalidNode}
	dec := xml.NewDecoder(r)
	stack := []NodeID{}

	for {
		line, _ := dec.InputPos()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ir.ReaderError{Source: ir.Source{File: file, Line: line}, Msg: "malformed document", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := InvalidNode
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			} else if doc.root != InvalidNode {
				return nil, &ir.ReaderError{Source: ir.Source{File: file, Line: line}, Msg: "more than one document element"}
			}
			id := doc.addNode(t, parent, line)
			if parent == InvalidNode {
				doc.root = id
			}
			stack = append(stack, id)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ir.ReaderError{Source: ir.Source{File: file, Line: line}, Msg: "unexpected closing tag " + rawName(t.Name)}
			}
			open := doc.nodes[stack[len(stack)-1]]
			if open.prefix != t.Name.Space || open.local != t.Name.Local {
				return nil, &ir.ReaderError{
					Source: ir.Source{File: file, Line: line},
					Msg:    fmt.Sprintf("element <%s> closed by </%s>", rawName(xml.Name{Space: open.prefix, Local: open.local}), rawName(t.Name)),
				}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				n := &doc.nodes[stack[len(stack)-1]]
				n.text = append(n.text, t...)
			}
		}
	}

	if len(stack) > 0 {
		return nil, &ir.ReaderError{Source: ir.Source{File: file}, Msg: "unexpected end of document"}
	}
	if doc.root == InvalidNode {
		return nil, &ir.ReaderError{Source: ir.Source{File: file}, Msg: "document has no root element"}
	}
	return doc, nil
}

// LoadDocument parses the file at path
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()
	return ParseDocument(f, path)
}

func (d *Document) addNode(t xml.StartElement, parent NodeID, line int) NodeID {
	attrs := make([]Attr, len(t.Attr))
	for i, a := range t.Attr {
		attrs[i] = Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value}
	}
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, node{
		prefix: t.Name.Space,
		local:  t.Name.Local,
		attrs:  attrs,
		parent: parent,
		line:   line,
	})
	if parent != InvalidNode {
		d.nodes[parent].children = append(d.nodes[parent].children, id)
	}
	return id
}

func (d *Document) validNode(id NodeID) bool {
	return d != nil && id >= 0 && int(id) < len(d.nodes)
}

func (d *Document) Root() NodeID {
	return d.root
}

func (d *Document) Parent(id NodeID) NodeID {
	if !d.validNode(id) {
		return InvalidNode
	}
	return d.nodes[id].parent
}

func (d *Document) Prefix(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].prefix
}

func (d *Document) LocalName(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return d.nodes[id].local
}

// QName is the element name as written, prefix included
func (d *Document) QName(id NodeID) string {
	return rawName(xml.Name{Space: d.Prefix(id), Local: d.LocalName(id)})
}

func (d *Document) Children(id NodeID) []NodeID {
	if !d.validNode(id) {
		return nil
	}
	return d.nodes[id].children
}

func (d *Document) Attrs(id NodeID) []Attr {
	if !d.validNode(id) {
		return nil
	}
	return d.nodes[id].attrs
}

// Attr returns the value of an unprefixed attribute, or "" when absent
func (d *Document) Attr(id NodeID, local string) string {
	v, _ := d.LookupAttr(id, local)
	return v
}

func (d *Document) LookupAttr(id NodeID, local string) (string, bool) {
	for _, a := range d.Attrs(id) {
		if a.Prefix == "" && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the trimmed character data directly under id
func (d *Document) Text(id NodeID) string {
	if !d.validNode(id) {
		return ""
	}
	return strings.TrimSpace(string(d.nodes[id].text))
}

func (d *Document) Line(id NodeID) int {
	if !d.validNode(id) {
		return 0
	}
	return d.nodes[id].line
}

// Path renders the ancestry of id, e.g. /schema/complexType[Address]/sequence/element[street]
func (d *Document) Path(id NodeID) string {
	parts := []string{}
	for cur := id; d.validNode(cur); cur = d.nodes[cur].parent {
		part := d.nodes[cur].local
		if name := d.Attr(cur, "name"); name != "" {
			part += "[" + name + "]"
		}
		parts = append(parts, part)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(parts[i])
	}
	return b.String()
}

// Source locates id for error reporting
func (d *Document) Source(id NodeID) ir.Source {
	return ir.Source{File: d.File, Line: d.Line(id), Path: d.Path(id)}
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

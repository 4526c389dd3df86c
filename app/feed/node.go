package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Node is an element of a parsed feed document. Text holds the element's
// own character data, without the text of its children.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// ParseDocument builds the element tree of an XML document. Anything that
// is not a single well-formed root element fails with ErrMalformedDocument.
func ParseDocument(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name, Attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", ErrMalformedDocument)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside of the root element", ErrMalformedDocument)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}

	return root, nil
}

// Is reports whether the element has the given name and no namespace.
func (n *Node) Is(local string) bool {
	return n.Name.Space == "" && n.Name.Local == local
}

// Attr returns the value of a non-namespaced attribute.
func (n *Node) Attr(local string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Find returns the first descendant, in document order, whose local name
// matches regardless of namespace.
func (n *Node) Find(local string) *Node {
	var found *Node
	n.walk(func(d *Node) bool {
		if d.Name.Local == local {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant whose local name matches regardless of
// namespace, in document order.
func (n *Node) FindAll(local string) []*Node {
	var found []*Node
	n.walk(func(d *Node) bool {
		if d.Name.Local == local {
			found = append(found, d)
		}
		return true
	})
	return found
}

// walk visits descendants depth-first until visit returns false.
func (n *Node) walk(visit func(*Node) bool) bool {
	for _, child := range n.Children {
		if !visit(child) || !child.walk(visit) {
			return false
		}
	}
	return true
}

// FindText returns the text of the first descendant named local, ignoring
// namespaces. The boolean is false when no such element exists.
func FindText(n *Node, local string) (string, bool) {
	found := n.Find(local)
	if found == nil {
		return "", false
	}
	return found.Text, true
}

func findText(n *Node, local string) string {
	text, _ := FindText(n, local)
	return text
}

/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package gameday

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

var ErrMalformedDocument = errors.New("malformed document")

// Node is one XML element: its tag, its raw attribute strings and its
// element children in document order. Character data is discarded since
// gameday documents carry everything in attributes.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
}

// Find returns the first child with the given tag or nil.
func (n *Node) Find(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every child with the given tag.
func (n *Node) FindAll(tag string) []*Node {
	if n == nil {
		return nil
	}
	var ret []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			ret = append(ret, c)
		}
	}
	return ret
}

// ParseDocument builds a Node tree from an XML document. Any syntax error
// is reported as ErrMalformedDocument.
func ParseDocument(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Tag:   t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, fmt.Errorf("%w: multiple root elements",
					ErrMalformedDocument)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}

	return root, nil
}

// charsetReader lets documents that declare a legacy encoding such as
// ISO-8859-1 through the decoder.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// OpenDocument parses the XML file at path, gunzipping it first when the
// name ends in .gz.
func OpenDocument(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to gunzip %v: %v",
				ErrMalformedDocument, path, err)
		}
		defer gz.Close()
		r = gz
	}

	doc, err := ParseDocument(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %v: %w", path, err)
	}

	return doc, nil
}

// FindDocument locates name within a game directory. The plain and
// gzipped forms are tried in dir and then in each of subdirs.
func FindDocument(dir string, name string, subdirs ...string) (string, error) {
	candidates := []string{dir}
	for _, s := range subdirs {
		candidates = append(candidates, filepath.Join(dir, s))
	}
	for _, d := range candidates {
		for _, fname := range []string{name, name + ".gz"} {
			p := filepath.Join(d, fname)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}

	return "", fmt.Errorf("unable to find %v under %v: %w", name, dir,
		os.ErrNotExist)
}

// cursor walks an ordered child list with one element of lookahead.
type cursor struct {
	nodes []*Node
	pos   int
}

func newCursor(nodes []*Node) *cursor {
	return &cursor{nodes: nodes}
}

func (c *cursor) Next() (*Node, bool) {
	if c.pos >= len(c.nodes) {
		return nil, false
	}
	n := c.nodes[c.pos]
	c.pos++
	return n, true
}

func (c *cursor) Peek() (*Node, bool) {
	if c.pos >= len(c.nodes) {
		return nil, false
	}
	return c.nodes[c.pos], true
}

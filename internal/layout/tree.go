package layout

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind tells folders and files apart.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// Node is a folder or a file in the display tree.
type Node struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"type"`
	Children []*Node `json:"children,omitempty"`
	Path     string  `json:"path,omitempty"` // Full path, files only
}

// BuildTree builds the sorted folder tree for a set of paths. The result
// depends only on the keys of files, never on map iteration order.
func BuildTree(files map[string]string) []*Node {
	root := &Node{Name: "root", Kind: KindFolder}

	for path := range files {
		parts := strings.Split(path, "/")
		node := root

		for i, part := range parts {
			child := node.child(part)
			if child == nil {
				child = &Node{Name: part, Kind: KindFolder}
				if i == len(parts)-1 {
					child.Kind = KindFile
					child.Path = path
				}
				node.Children = append(node.Children, child)
			}
			node = child
		}
	}

	sortNodes(root.Children, collate.New(language.BrazilianPortuguese))
	return root.Children
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sortNodes orders siblings folders first, then by collated name, recursively.
func sortNodes(nodes []*Node, col *collate.Collator) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Kind != b.Kind {
			return a.Kind == KindFolder
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		if len(n.Children) > 0 {
			sortNodes(n.Children, col)
		}
	}
}

// Render draws the tree as indented text, one node per line.
func Render(nodes []*Node) string {
	var b strings.Builder
	renderNodes(&b, nodes, "")
	return b.String()
}

func renderNodes(b *strings.Builder, nodes []*Node, prefix string) {
	for i, n := range nodes {
		branch, indent := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(prefix + branch + n.Name)
		if n.Kind == KindFolder {
			b.WriteString("/")
		}
		b.WriteString("\n")
		renderNodes(b, n.Children, prefix+indent)
	}
}

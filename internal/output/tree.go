package output

import (
	"path/filepath"
	"sort"
	"strings"
)

// Tree connectors.
const (
	branchMid  = "├── "
	branchEnd  = "└── "
	indentPipe = "│   "
	indentGap  = "    "
)

// descriptionColumn is the rune column descriptions start at.
const descriptionColumn = 34

type treeNode struct {
	name        string
	description string
	dir         bool
	children    map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	if n.children == nil {
		n.children = make(map[string]*treeNode)
	}
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name}
		n.children[name] = c
	}
	return c
}

// sorted returns the children with directories first, then by name.
func (n *treeNode) sorted() []*treeNode {
	out := make([]*treeNode, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].dir != out[j].dir {
			return out[i].dir
		}
		return out[i].name < out[j].name
	})
	return out
}

// RenderFileTree renders files below rootName as a tree, with descriptions
// aligned in one column. Keys are slash-separated relative paths; a trailing
// slash marks a directory.
func RenderFileTree(rootName string, files map[string]string, styles *Styles) string {
	if len(files) == 0 {
		return ""
	}
	if styles == nil {
		styles = GetStyles()
	}

	root := &treeNode{name: rootName, dir: true}
	for p, desc := range files {
		p = filepath.ToSlash(p)
		parts := strings.Split(strings.Trim(p, "/"), "/")

		node := root
		for i, part := range parts {
			node = node.child(part)
			if i < len(parts)-1 {
				node.dir = true
			}
		}
		node.description = desc
		if strings.HasSuffix(p, "/") {
			node.dir = true
		}
	}

	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(rootName + "/"))
	sb.WriteString("\n")
	writeChildren(&sb, root, "", styles)
	return sb.String()
}

func writeChildren(sb *strings.Builder, node *treeNode, indent string, styles *Styles) {
	children := node.sorted()
	for i, c := range children {
		last := i == len(children)-1

		branch, next := branchMid, indentPipe
		if last {
			branch, next = branchEnd, indentGap
		}

		line := indent + branch + c.name
		if c.dir {
			line += "/"
		}
		if c.description != "" {
			pad := max(descriptionColumn-len([]rune(line)), 2)
			line += strings.Repeat(" ", pad) + styles.Muted.Render(c.description)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		writeChildren(sb, c, indent+next, styles)
	}
}

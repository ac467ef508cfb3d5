package installed

import (
	"path/filepath"
	"slices"
)

// Classification is the package.json section that declares a dependency.
type Classification string

const (
	Production Classification = "dependencies"
	Dev        Classification = "devDependencies"
	Optional   Classification = "optionalDependencies"

	// Unclassified marks a name that none of the three sections declares.
	Unclassified Classification = ""
)

// Classifications lists the sections in lookup priority order.
var Classifications = []Classification{Production, Dev, Optional}

// Node is one installed package, or the project root.
type Node struct {
	Name     string
	Version  string
	HomePage string
	Path     string

	Dependencies         map[string]string
	DevDependencies      map[string]string
	OptionalDependencies map[string]string

	// Children maps a declared dependency name to the node that Node's
	// resolution rules select for it. Names that are not installed are absent.
	// For a project root it also holds every package installed directly in
	// its node_modules, declared or not.
	Children map[string]*Node
}

// Declared returns the constraint map for c, or nil for Unclassified.
func (n *Node) Declared(c Classification) map[string]string {
	switch c {
	case Production:
		return n.Dependencies
	case Dev:
		return n.DevDependencies
	case Optional:
		return n.OptionalDependencies
	}
	return nil
}

// Classify returns the first section, in priority order, that declares name.
func (n *Node) Classify(name string) Classification {
	for _, c := range Classifications {
		if _, ok := n.Declared(c)[name]; ok {
			return c
		}
	}
	return Unclassified
}

// Names returns the names declared in section c, sorted.
func (n *Node) Names(c Classification) []string {
	section := n.Declared(c)
	names := make([]string, 0, len(section))
	for k := range section {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// DeclaredNames returns the union of the three sections: production names
// first, then dev, then optional, sorted within each section with later
// duplicates dropped.
func (n *Node) DeclaredNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range Classifications {
		for _, k := range n.Names(c) {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}

// Child returns the installed node for name, if any.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.Children[name]
	return c, ok && c != nil
}

// Label names the node in location trails: the package name, or the base
// name of its directory when the manifest has no name.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return filepath.Base(n.Path)
}

package installed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/matzehuels/outdated/pkg/errors"
)

const (
	manifestFile = "package.json"
	modulesDir   = "node_modules"
)

// Loader reads installed trees from a filesystem.
type Loader struct {
	Fs     afero.Fs
	Logger func(string, ...any)

	nodes   map[string]*Node
	missing map[string]bool
	root    string
}

// NewLoader returns a loader over fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs, logger func(string, ...any)) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Loader{Fs: fs, Logger: logger}
}

// Load reads the project rooted at dir. A missing or malformed root
// package.json is an INVALID_MANIFEST error.
func (l *Loader) Load(dir string) (*Node, error) {
	l.reset(dir)

	root, err := l.readManifest(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "no %s in %s", manifestFile, dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", filepath.Join(dir, manifestFile))
	}
	l.nodes[root.Path] = root
	l.resolveChildren(root, true)
	l.resolveExtraneous(root)
	return root, nil
}

// resolveExtraneous adds the packages installed directly under n that no
// section of n declares, so that naming them explicitly finds them.
func (l *Loader) resolveExtraneous(n *Node) {
	names, err := l.listModules(filepath.Join(n.Path, modulesDir))
	if err != nil {
		if !os.IsNotExist(err) {
			l.Logger("ignoring %s: %v", filepath.Join(n.Path, modulesDir), err)
		}
		return
	}
	for _, name := range names {
		if _, done := n.Children[name]; done {
			continue
		}
		if child := l.resolve(n.Path, name); child != nil {
			n.Children[name] = child
		}
	}
}

// GlobalDir returns the directory holding the global packages of prefix.
func GlobalDir(prefix string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(prefix, modulesDir)
	}
	return filepath.Join(prefix, "lib", modulesDir)
}

// LoadGlobal builds a virtual root whose production dependencies are every
// package installed under prefix, each with constraint "*".
func (l *Loader) LoadGlobal(prefix string) (*Node, error) {
	modules := GlobalDir(prefix)
	base := filepath.Dir(modules)
	l.reset(base)

	names, err := l.listModules(modules)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list global packages in %s", modules)
	}

	root := &Node{
		Name:         "global",
		Path:         base,
		Dependencies: make(map[string]string, len(names)),
		Children:     make(map[string]*Node),
	}
	for _, name := range names {
		root.Dependencies[name] = "*"
	}
	l.nodes[root.Path] = root
	l.resolveChildren(root, false)
	return root, nil
}

func (l *Loader) reset(root string) {
	if l.Fs == nil {
		l.Fs = afero.NewOsFs()
	}
	if l.Logger == nil {
		l.Logger = func(string, ...any) {}
	}
	l.nodes = make(map[string]*Node)
	l.missing = make(map[string]bool)
	l.root = filepath.Clean(root)
}

// resolveChildren fills n.Children. Dev dependencies are only installed for
// the project root, so they are only resolved there.
func (l *Loader) resolveChildren(n *Node, withDev bool) {
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	for _, c := range Classifications {
		if c == Dev && !withDev {
			continue
		}
		for name := range n.Declared(c) {
			if _, done := n.Children[name]; done {
				continue
			}
			if child := l.resolve(n.Path, name); child != nil {
				n.Children[name] = child
			}
		}
	}
}

// resolve finds name from dir using Node's lookup: dir/node_modules/name,
// then the same in each ancestor up to the root.
func (l *Loader) resolve(dir, name string) *Node {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		if filepath.Base(d) != modulesDir {
			candidate := filepath.Join(d, modulesDir, filepath.FromSlash(name))
			if n, ok := l.nodes[candidate]; ok {
				return n
			}
			if !l.missing[candidate] {
				if n := l.load(candidate); n != nil {
					return n
				}
				l.missing[candidate] = true
			}
		}
		if d == l.root || !l.within(d) || filepath.Dir(d) == d {
			return nil
		}
	}
}

func (l *Loader) load(dir string) *Node {
	n, err := l.readManifest(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.Logger("ignoring %s: %v", filepath.Join(dir, manifestFile), err)
		}
		return nil
	}
	l.nodes[n.Path] = n
	l.resolveChildren(n, false)
	return n
}

func (l *Loader) within(dir string) bool {
	rel, err := filepath.Rel(l.root, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (l *Loader) readManifest(dir string) (*Node, error) {
	data, err := afero.ReadFile(l.Fs, filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &Node{
		Name:                 m.Name,
		Version:              m.Version,
		HomePage:             m.HomePage,
		Path:                 filepath.Clean(dir),
		Dependencies:         m.Dependencies,
		DevDependencies:      m.DevDependencies,
		OptionalDependencies: m.OptionalDependencies,
	}, nil
}

// listModules returns the package names directly under a node_modules
// directory, expanding @scope directories.
func (l *Loader) listModules(dir string) ([]string, error) {
	entries, err := afero.ReadDir(l.Fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasPrefix(name, "@") {
			names = append(names, name)
			continue
		}
		scoped, err := afero.ReadDir(l.Fs, filepath.Join(dir, name))
		if err != nil {
			l.Logger("ignoring scope %s: %v", name, err)
			continue
		}
		for _, s := range scoped {
			if s.IsDir() && !strings.HasPrefix(s.Name(), ".") {
				names = append(names, name+"/"+s.Name())
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// manifest is the subset of package.json the loader reads.
type manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	HomePage             string            `json:"homepage"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Package installed reads the dependency tree that npm has laid out on disk.
//
// [Loader.Load] starts at a project directory, reads its package.json and
// resolves every declared dependency the way Node's module loader does: the
// package's own node_modules first, then the node_modules of each ancestor
// directory, never looking above the project root. A dependency that cannot
// be found is simply absent from [Node.Children].
//
// [Loader.LoadGlobal] builds a virtual root over the globally installed
// packages of an npm prefix.
//
// All filesystem access goes through an [afero.Fs], so callers can point the
// loader at an in-memory tree.
package installed

package codebase

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/weft/lang/parser"
	"github.com/dhamidi/weft/lang/syntax"
)

var log = commonlog.GetLogger("weft.codebase")

// Extension is the suffix of source files picked up by scans.
const Extension = ".flix"

const defaultCacheSize = 256

type Codebase struct {
	mu        sync.RWMutex
	rootDir   string
	files     map[string]*FileInfo
	cache     *lru.Cache
	workers   int
	parseOpts []parser.Option
}

// FileInfo is the parse result for one file. It is replaced, never mutated,
// when the file changes.
type FileInfo struct {
	Path        string
	Content     []byte
	Tokens      []syntax.Token
	Tree        *parser.Node
	Diagnostics []*parser.Diagnostic
	Symbols     []Symbol
	ParseErr    error
}

func (f *FileInfo) Source() syntax.Source {
	return syntax.Source{Name: f.Path, Text: f.Content}
}

type Option func(*Codebase)

// WithCacheSize bounds the number of parse results kept by content hash.
func WithCacheSize(n int) Option {
	return func(c *Codebase) {
		if n > 0 {
			c.cache, _ = lru.New(n)
		}
	}
}

func WithWorkers(n int) Option {
	return func(c *Codebase) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Codebase) {
		c.parseOpts = append(c.parseOpts, opts...)
	}
}

func New(rootDir string, opts ...Option) *Codebase {
	cache, _ := lru.New(defaultCacheSize)
	c := &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
		cache:   cache,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll parses every source file below the root directory.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := SourceFiles(c.rootDir)
	if err != nil {
		return err
	}
	if err := c.ScanFiles(ctx, paths); err != nil {
		return err
	}
	log.Infof("scanned %d files in %s", len(paths), c.rootDir)
	return nil
}

// ScanFiles parses the given files concurrently. Unreadable files are logged
// and skipped; only cancellation stops the scan.
func (c *Codebase) ScanFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.ScanFile(path); err != nil {
				log.Warningf("%s: %s", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// SourceFiles lists the source files below dir, skipping hidden
// directories.
func SourceFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Extension {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile parses content outside the lock and then installs the result.
// The returned error is the parser's internal error, if any; the file is
// recorded either way.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	info := c.parse(path, content)
	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()
	return info.ParseErr
}

type cacheKey struct {
	path string
	sum  [sha256.Size]byte
}

func (c *Codebase) parse(path string, content []byte) *FileInfo {
	key := cacheKey{path: path, sum: sha256.Sum256(content)}
	if cached, ok := c.cache.Get(key); ok {
		log.Debugf("%s: cache hit", path)
		return cached.(*FileInfo)
	}

	tokens := syntax.Tokenize(content, path)
	opts := append([]parser.Option{parser.WithFile(path)}, c.parseOpts...)
	tree, diags, err := parser.Parse(tokens, opts...)
	info := &FileInfo{
		Path:        path,
		Content:     content,
		Tokens:      tokens,
		Tree:        tree,
		Diagnostics: diags,
		ParseErr:    err,
	}
	if tree != nil {
		info.Symbols = Symbols(tree)
	}
	c.cache.Add(key, info)
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns all known files sorted by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// FindSymbol looks up a top-level or nested declaration by name across all
// files.
func (c *Codebase) FindSymbol(name string) (*FileInfo, *Symbol) {
	for _, f := range c.Files() {
		if sym := findSymbol(f.Symbols, name); sym != nil {
			return f, sym
		}
	}
	return nil, nil
}

func findSymbol(symbols []Symbol, name string) *Symbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
		if sym := findSymbol(symbols[i].Children, name); sym != nil {
			return sym
		}
	}
	return nil
}

// NodesAtPoint returns the chain of nodes whose span contains the given
// 1-based position, outermost first.
func (c *Codebase) NodesAtPoint(path string, line, column int) []*parser.Node {
	f := c.GetFile(path)
	if f == nil || f.Tree == nil {
		return nil
	}
	return nodesAt(f.Tree, line, column)
}

func nodesAt(root *parser.Node, line, column int) []*parser.Node {
	var chain []*parser.Node
	node := root
	for node != nil {
		chain = append(chain, node)
		var next *parser.Node
		for _, child := range node.Children {
			if child.Span.Len() > 0 && covers(child.Span, line, column) {
				next = child
				break
			}
		}
		node = next
	}
	return chain
}

func covers(span syntax.Span, line, column int) bool {
	after := line > span.Start.Line || (line == span.Start.Line && column >= span.Start.Column)
	before := line < span.End.Line || (line == span.End.Line && column < span.End.Column)
	return after && before
}

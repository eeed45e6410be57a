package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/statementlens/statementlens/internal/model"
)

// ErrUnsupportedFormat is returned for files no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser converts one exported statement file into Transactions.
type Parser interface {
	// Parse reads data; fileIndex distinguishes files within one upload.
	Parse(data []byte, fileIndex int) ([]model.Transaction, error)
	Format() string
	Extensions() []string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	byExt map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Parser)}
}

// Register adds a parser for each of its extensions. Panics on duplicate extension.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.byExt[key]; ok {
			panic("duplicate parser extension: " + key)
		}
		r.byExt[key] = p
	}
}

// Get returns the parser for an extension such as ".csv", or nil.
func (r *Registry) Get(ext string) Parser {
	return r.byExt[strings.ToLower(ext)]
}

// ForFile returns the parser for a file name.
func (r *Registry) ForFile(name string) (Parser, error) {
	p := r.Get(filepath.Ext(name))
	if p == nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedFormat)
	}
	return p, nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DefaultRegistry returns a registry with all built-in parsers sharing pipeline.
func DefaultRegistry(pipeline *Pipeline) *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{pipeline: pipeline})
	r.Register(&XLSXParser{pipeline: pipeline})
	r.Register(&OFXParser{pipeline: pipeline})
	return r
}

// importDir is the subdirectory for statement files.
const importDir = "import"

// processedDir is the subdirectory for processed statement files.
const processedDir = "import/processed"

// Scan returns files in <repoRoot>/import/ that some parser in reg handles,
// sorted by name.
func Scan(repoRoot string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if reg.Get(filepath.Ext(e.Name())) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

package gen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// GeneratorContext is what one generation pass needs from its driver: the
// files of the compilation unit, primary first, and a way to open outputs.
type GeneratorContext interface {
	// ListParsedFiles returns the files of the compilation unit in order.
	ListParsedFiles() []protoreflect.FileDescriptor
	// Open creates the output at name, a slash-separated path relative to
	// the output root.
	Open(name string) (io.WriteCloser, error)
}

// A Reserver is a GeneratorContext that can claim output names ahead of
// opening them. Reserve fails, claiming nothing, if any name is taken.
type Reserver interface {
	Reserve(names ...string) error
}

// File is a generated output.
type File struct {
	Name    string
	Content string
}

// MemoryOutput is a GeneratorContext collecting outputs in memory.
// It is safe for concurrent use.
type MemoryOutput struct {
	files []protoreflect.FileDescriptor

	mu       sync.Mutex
	order    []string
	outputs  map[string]*bytes.Buffer
	reserved map[string]bool
}

// NewMemoryOutput returns an output for the given compilation unit.
func NewMemoryOutput(files []protoreflect.FileDescriptor) *MemoryOutput {
	return &MemoryOutput{
		files:    files,
		outputs:  make(map[string]*bytes.Buffer),
		reserved: make(map[string]bool),
	}
}

// ListParsedFiles implements GeneratorContext.
func (m *MemoryOutput) ListParsedFiles() []protoreflect.FileDescriptor { return m.files }

// Reserve implements Reserver.
func (m *MemoryOutput) Reserve(names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := m.outputs[name]; ok || m.reserved[name] || seen[name] {
			return NewGenerationError("open", name, "output opened twice", nil)
		}
		seen[name] = true
	}
	for _, name := range names {
		m.reserved[name] = true
	}
	return nil
}

// Open implements GeneratorContext. Opening a name twice is an error, as is
// opening a name reserved by another caller.
func (m *MemoryOutput) Open(name string) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.outputs[name]; ok {
		return nil, NewGenerationError("open", name, "output opened twice", nil)
	}
	delete(m.reserved, name)
	buf := &bytes.Buffer{}
	m.outputs[name] = buf
	m.order = append(m.order, name)
	return nopCloser{buf}, nil
}

// Files returns the outputs in the order they were opened.
func (m *MemoryOutput) Files() []*File {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := make([]*File, 0, len(m.order))
	for _, name := range m.order {
		files = append(files, &File{Name: name, Content: m.outputs[name].String()})
	}
	return files
}

// Content returns the content of output name and whether it was opened.
func (m *MemoryOutput) Content(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.outputs[name]
	if !ok {
		return "", false
	}
	return buf.String(), true
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

// WriteFiles writes files under dir, creating directories as needed. Each
// file is first written to a temporary file next to its target and all of
// them are renamed into place once every write succeeded; on failure the
// temporary files are removed and no target is touched.
func WriteFiles(dir string, files []*File) (err error) {
	temps := make([]string, 0, len(files))
	defer func() {
		if err != nil {
			for _, tmp := range temps {
				os.Remove(tmp)
			}
		}
	}()
	for _, f := range files {
		tmp, err := writeTemp(dir, f)
		if err != nil {
			return err
		}
		temps = append(temps, tmp)
	}
	for i, f := range files {
		if err := os.Rename(temps[i], targetPath(dir, f)); err != nil {
			return err
		}
	}
	return nil
}

func targetPath(dir string, f *File) string {
	return filepath.Join(dir, filepath.FromSlash(f.Name))
}

// writeTemp writes one output to a temporary file in its target directory
// and returns the temporary path.
func writeTemp(dir string, f *File) (string, error) {
	path := targetPath(dir, f)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(out, f.Content); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	if err := os.Chmod(out.Name(), 0o644); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

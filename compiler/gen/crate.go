package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"gopkg.in/yaml.v3"
)

// currentCrate is the path prefix Rust uses for the crate being compiled.
const currentCrate = "crate"

// CrateMapping maps the import path of a .proto file to the name of the
// Rust crate that owns its generated code.
type CrateMapping map[string]string

// crateMappingFile is the YAML flavour of the crate mapping.
type crateMappingFile struct {
	Crates []struct {
		Name  string   `yaml:"name"`
		Files []string `yaml:"files"`
	} `yaml:"crates"`
}

// LoadCrateMapping reads a crate mapping file. Files ending in .yaml or
// .yml are decoded as YAML; anything else uses the bazel text format:
//
//	<crate name>
//	<number of files>
//	<import path>...
func LoadCrateMapping(path string) (CrateMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Option: "bazel_crate_mapping", Value: path, Message: "cannot read mapping file", Cause: err}
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return parseYAMLCrateMapping(data)
	default:
		return ParseCrateMapping(data)
	}
}

// ParseCrateMapping parses the bazel text format.
func ParseCrateMapping(data []byte) (CrateMapping, error) {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	m := make(CrateMapping)
	for i := 0; i < len(lines); {
		crate := lines[i]
		i++
		if i >= len(lines) {
			return nil, NewConfigError("bazel_crate_mapping", crate, "missing number of import paths")
		}
		n, err := strconv.Atoi(lines[i])
		if err != nil || n < 0 {
			return nil, NewConfigError("bazel_crate_mapping", lines[i], "couldn't parse number of import paths in mapping file")
		}
		i++
		if i+n > len(lines) {
			return nil, NewConfigError("bazel_crate_mapping", crate, "mapping file is truncated")
		}
		for _, file := range lines[i : i+n] {
			if err := m.add(file, crate); err != nil {
				return nil, err
			}
		}
		i += n
	}
	return m, nil
}

func parseYAMLCrateMapping(data []byte) (CrateMapping, error) {
	var f crateMappingFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &ConfigError{Option: "bazel_crate_mapping", Message: "invalid YAML mapping", Cause: err}
	}
	m := make(CrateMapping)
	for _, c := range f.Crates {
		if c.Name == "" {
			return nil, NewConfigError("bazel_crate_mapping", nil, "crate without a name")
		}
		for _, file := range c.Files {
			if err := m.add(file, c.Name); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m CrateMapping) add(file, crate string) error {
	if prev, ok := m[file]; ok && prev != crate {
		return NewConfigError("bazel_crate_mapping", file, "import path mapped to both "+prev+" and "+crate)
	}
	m[file] = crate
	return nil
}

// ResolveCrateMapping returns the mapping configured by o: the preloaded
// mapping, the mapping file, or an empty mapping.
func (o *Options) ResolveCrateMapping() (CrateMapping, error) {
	switch {
	case o.CrateMapping != nil:
		return o.CrateMapping, nil
	case o.CrateMappingPath != "":
		return LoadCrateMapping(o.CrateMappingPath)
	default:
		return CrateMapping{}, nil
	}
}

// Crate is the set of files compiled into one Rust crate. The first file is
// the primary file; the others are reached through submodules declared in
// the primary file's module. A Crate is read-only once built.
type Crate struct {
	files   []protoreflect.FileDescriptor
	index   map[string]int
	modules map[string]string // non-primary file path -> submodule name
	mapping CrateMapping
}

// NewCrate builds the crate from the files of the compilation unit in order.
// It fails if two non-primary files map to the same submodule.
func NewCrate(files []protoreflect.FileDescriptor, mapping CrateMapping) (*Crate, error) {
	if len(files) == 0 {
		return nil, NewConfigError("files", nil, "compilation unit is empty")
	}
	c := &Crate{
		files:   files,
		index:   make(map[string]int, len(files)),
		modules: make(map[string]string, len(files)-1),
		mapping: mapping,
	}
	owners := make(map[string]string, len(files)-1)
	for i, f := range files {
		path := f.Path()
		if _, dup := c.index[path]; dup {
			return nil, NewConfigError("files", path, "file listed twice in compilation unit")
		}
		c.index[path] = i
		if i == 0 {
			continue
		}
		mod := InternalModuleName(path)
		if prev, ok := owners[mod]; ok {
			return nil, NewCollisionError(mod, prev, path)
		}
		owners[mod] = path
		c.modules[path] = mod
	}
	return c, nil
}

// Primary returns the primary file.
func (c *Crate) Primary() protoreflect.FileDescriptor { return c.files[0] }

// NonPrimary returns every file except the primary one, in order.
func (c *Crate) NonPrimary() []protoreflect.FileDescriptor { return c.files[1:] }

// IsPrimary reports whether f is the primary file.
func (c *Crate) IsPrimary(f protoreflect.FileDescriptor) bool {
	return f.Path() == c.files[0].Path()
}

// Contains reports whether f is compiled into this crate.
func (c *Crate) Contains(f protoreflect.FileDescriptor) bool {
	_, ok := c.index[f.Path()]
	return ok
}

// SubmoduleName returns the submodule holding the code of a non-primary
// file. It returns "" for the primary file and files outside the crate.
func (c *Crate) SubmoduleName(f protoreflect.FileDescriptor) string {
	return c.modules[f.Path()]
}

// ExternalName returns the name of the crate that owns f, which must be
// outside this crate.
func (c *Crate) ExternalName(f protoreflect.FileDescriptor) (string, error) {
	name, ok := c.mapping[f.Path()]
	if !ok {
		return "", NewLookupError("", f.Path())
	}
	return name, nil
}

// Name returns "crate" for files in this crate and the external crate name
// otherwise.
func (c *Crate) Name(f protoreflect.FileDescriptor) (string, error) {
	if c.Contains(f) {
		return currentCrate, nil
	}
	return c.ExternalName(f)
}

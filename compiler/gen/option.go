package gen

import (
	"strings"
)

// Kernel selects the runtime the generated bindings are backed by.
type Kernel int

const (
	_ Kernel = iota

	// KernelUPB generates pure Rust bindings over the upb runtime.
	KernelUPB

	// KernelCPP generates bindings over the C++ runtime, reached through
	// extern "C" thunks emitted into a companion .pb.thunks.cc file.
	KernelCPP
)

// String returns the kernel name as used in the parameter string.
func (k Kernel) String() string {
	switch k {
	case KernelUPB:
		return "upb"
	case KernelCPP:
		return "cpp"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel name.
func ParseKernel(s string) (Kernel, error) {
	switch s {
	case "upb":
		return KernelUPB, nil
	case "cpp":
		return KernelCPP, nil
	default:
		return 0, NewConfigError("kernel", s, "unknown kernel; use cpp or upb")
	}
}

// Options holds the generator configuration resolved once per invocation.
// Options are read-only once constructed and may be shared between passes.
type Options struct {
	// Kernel selects the backing runtime.
	Kernel Kernel

	// CrateMappingPath points to a file mapping import paths to crate names.
	CrateMappingPath string

	// CrateMapping is a preloaded mapping. When non-nil it takes precedence
	// over CrateMappingPath.
	CrateMapping CrateMapping

	// StripNonfunctionalCodegen omits feature-only imports and version
	// stamps so conformance output is reproducible.
	StripNonfunctionalCodegen bool
}

// Option configures code generation.
type Option func(*Options) error

// WithKernel sets the kernel by name ("cpp" or "upb").
func WithKernel(name string) Option {
	return func(o *Options) error {
		k, err := ParseKernel(name)
		if err != nil {
			return err
		}
		o.Kernel = k
		return nil
	}
}

// WithCrateMappingPath sets the crate mapping file.
func WithCrateMappingPath(path string) Option {
	return func(o *Options) error {
		if path == "" {
			return NewConfigError("bazel_crate_mapping", nil, "path cannot be empty")
		}
		if strings.ContainsRune(path, ',') {
			return NewConfigError("bazel_crate_mapping", path, "path cannot contain ','")
		}
		o.CrateMappingPath = path
		return nil
	}
}

// WithCrateMapping sets a preloaded crate mapping.
func WithCrateMapping(m CrateMapping) Option {
	return func(o *Options) error {
		if m == nil {
			return NewConfigError("CrateMapping", nil, "mapping cannot be nil")
		}
		o.CrateMapping = m
		return nil
	}
}

// WithStripNonfunctionalCodegen toggles feature stripping.
func WithStripNonfunctionalCodegen(strip bool) Option {
	return func(o *Options) error {
		o.StripNonfunctionalCodegen = strip
		return nil
	}
}

// Apply applies options in order and returns the first error encountered.
func (o *Options) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// NewOptions creates validated Options.
func NewOptions(opts ...Option) (*Options, error) {
	o := &Options{}
	if err := o.Apply(opts...); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) validate() error {
	if o.Kernel == 0 {
		return NewConfigError("kernel", nil, "mandatory option `kernel` missing")
	}
	return nil
}

// IsCPP reports whether the C++ kernel is selected.
func (o *Options) IsCPP() bool { return o.Kernel == KernelCPP }

// IsUPB reports whether the upb kernel is selected.
func (o *Options) IsUPB() bool { return o.Kernel == KernelUPB }

// String renders the canonical parameter string. A preloaded CrateMapping
// has no textual form and is not included.
func (o *Options) String() string {
	parts := []string{"kernel=" + o.Kernel.String()}
	if o.CrateMappingPath != "" {
		parts = append(parts, "bazel_crate_mapping="+o.CrateMappingPath)
	}
	if o.StripNonfunctionalCodegen {
		parts = append(parts, "strip_nonfunctional_codegen")
	}
	return strings.Join(parts, ",")
}

// ParseOptions parses a protoc parameter string such as
// "kernel=cpp,bazel_crate_mapping=mapping.txt".
func ParseOptions(parameter string) (*Options, error) {
	var opts []Option
	for _, pair := range strings.Split(parameter, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		switch key {
		case "kernel":
			opts = append(opts, WithKernel(value))
		case "bazel_crate_mapping":
			opts = append(opts, WithCrateMappingPath(value))
		case "strip_nonfunctional_codegen":
			switch value {
			case "", "true":
				opts = append(opts, WithStripNonfunctionalCodegen(true))
			case "false":
				opts = append(opts, WithStripNonfunctionalCodegen(false))
			default:
				return nil, NewConfigError(key, value, "expected true or false")
			}
		case "experimental-codegen":
			if value != "enabled" {
				return nil, NewConfigError(key, value, "the only accepted value is `enabled`")
			}
		default:
			return nil, NewConfigError(key, nil, "unknown option")
		}
	}
	return NewOptions(opts...)
}

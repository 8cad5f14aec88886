package gen

import (
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// RsVars are bound on every bindings printer so emitters can spell paths
// into the runtime without repeating them.
var RsVars = Vars{
	"std":     "::std",
	"pb":      "::protobuf",
	"pbi":     "::protobuf::__internal",
	"pbr":     "::protobuf::__internal::runtime",
	"NonNull": "::std::ptr::NonNull",
	"Phantom": "::std::marker::PhantomData",
	"Result":  "::std::result::Result",
	"Option":  "::std::option::Option",
}

// Context is the emission state of one file pass. It is not safe for
// concurrent use; every pass builds its own.
type Context struct {
	opts    *Options
	crate   *Crate
	file    protoreflect.FileDescriptor
	printer *Printer
	modules []string
}

// NewContext returns a context for generating file. modules is the module
// path the emitted code starts in, usually empty. The context has no
// printer until one is bound with WithPrinter.
func NewContext(opts *Options, crate *Crate, file protoreflect.FileDescriptor, modules []string) *Context {
	return &Context{
		opts:    opts,
		crate:   crate,
		file:    file,
		modules: slices.Clone(modules),
	}
}

// WithPrinter returns a context writing to p. It shares the options and the
// crate of c and starts from a copy of its module path.
func (c *Context) WithPrinter(p *Printer) *Context {
	return &Context{
		opts:    c.opts,
		crate:   c.crate,
		file:    c.file,
		printer: p,
		modules: slices.Clone(c.modules),
	}
}

// Options returns the generator options.
func (c *Context) Options() *Options { return c.opts }

// Crate returns the crate being generated.
func (c *Context) Crate() *Crate { return c.crate }

// File returns the file under generation.
func (c *Context) File() protoreflect.FileDescriptor { return c.file }

// Printer returns the bound printer.
func (c *Context) Printer() *Printer { return c.printer }

// IsCPP reports whether the C++ kernel is selected.
func (c *Context) IsCPP() bool { return c.opts.IsCPP() }

// IsUPB reports whether the upb kernel is selected.
func (c *Context) IsUPB() bool { return c.opts.IsUPB() }

// Emit emits tmpl on the bound printer.
func (c *Context) Emit(v Vars, tmpl string) {
	c.printer.Emit(v, tmpl)
}

// PushModule enters a nested module.
func (c *Context) PushModule(name string) {
	c.modules = append(c.modules, name)
}

// PopModule leaves the innermost module.
func (c *Context) PopModule() {
	if len(c.modules) == 0 {
		panic("gen: PopModule called at crate root")
	}
	c.modules = c.modules[:len(c.modules)-1]
}

// Modules returns the module path of the code being emitted, outermost
// first.
func (c *Context) Modules() []string {
	return slices.Clone(c.modules)
}

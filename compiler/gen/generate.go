package gen

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto"
)

// thunksSupportHeaders are included by every thunks file after the
// headers of the file and its dependencies.
var thunksSupportHeaders = []string{
	"google/protobuf/map.h",
	"google/protobuf/repeated_field.h",
	"google/protobuf/repeated_ptr_field.h",
	"rust/cpp_kernel/serialized_data.h",
	"rust/cpp_kernel/strings.h",
}

// Generator runs generation passes, one per file of a compilation unit.
// A pass renders the Rust bindings of the file and, for the cpp kernel,
// the C++ thunks backing them. Outputs are only handed to the driver once
// the whole pass succeeded.
type Generator struct {
	dialect Dialect
	workers int
	logger  *log.Logger

	// Optional capability detected at runtime
	thunks ThunkGenerator
}

// NewGenerator creates a generator using dialect d.
//
// Example:
//
//	import "github.com/syssam/rsproto/compiler/gen/rust"
//
//	g := gen.NewGenerator(rust.NewDialect())
//	files, err := g.GenerateAll(ctx, unit, "kernel=cpp")
func NewGenerator(d Dialect) *Generator {
	g := &Generator{
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard),
	}
	return g.WithDialect(d)
}

// WithDialect sets the dialect. ThunkGenerator support is detected with a
// type assertion.
func (g *Generator) WithDialect(d Dialect) *Generator {
	if d != nil {
		g.dialect = d
		g.thunks = nil
		if tg, ok := d.(ThunkGenerator); ok {
			g.thunks = tg
		}
	}
	return g
}

// WithWorkers sets the number of files generated in parallel by
// GenerateAll.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithLogger sets the logger used for progress reports.
func (g *Generator) WithLogger(l *log.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Generate runs one pass for file. The compilation unit is the list of
// files reported by out, primary first. On failure nothing is written to
// out if it implements Reserver; other drivers may see outputs opened
// before the failing one.
func (g *Generator) Generate(file protoreflect.FileDescriptor, parameter string, out GeneratorContext) error {
	opts, err := ParseOptions(parameter)
	if err != nil {
		return err
	}
	crate, err := g.prepare(opts, out.ListParsedFiles())
	if err != nil {
		return err
	}
	if !crate.Contains(file) {
		return NewConfigError("files", file.Path(), "file is not part of the compilation unit")
	}
	outputs, err := g.generateFile(opts, crate, file)
	if err != nil {
		return err
	}
	return commit(out, outputs)
}

// GenerateAll runs one pass per file of unit and returns the outputs in
// unit order. Passes run in parallel and share only read-only state. If any
// pass fails no output is returned and the error of the first failing file
// in unit order is reported.
func (g *Generator) GenerateAll(ctx context.Context, unit []protoreflect.FileDescriptor, parameter string) ([]*File, error) {
	opts, err := ParseOptions(parameter)
	if err != nil {
		return nil, err
	}
	crate, err := g.prepare(opts, unit)
	if err != nil {
		return nil, err
	}

	var (
		eg      errgroup.Group
		results = make([][]*File, len(unit))
		errs    = make([]error, len(unit))
	)
	eg.SetLimit(g.workers)
	for i, f := range unit {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			outputs, err := g.generateFile(opts, crate, f)
			if err != nil {
				g.logger.Error("generation failed", "file", f.Path(), "error", err)
				errs[i] = err
				return err
			}
			g.logger.Debug("generated", "file", f.Path(), "outputs", len(outputs))
			results[i] = make([]*File, len(outputs))
			for j, o := range outputs {
				results[i][j] = o.file()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}
	var files []*File
	seen := make(map[string]bool)
	for _, r := range results {
		for _, f := range r {
			if seen[f.Name] {
				return nil, NewGenerationError("open", f.Name, "output opened twice", nil)
			}
			seen[f.Name] = true
			files = append(files, f)
		}
	}
	return files, nil
}

// prepare checks the dialect against the options and builds the crate.
func (g *Generator) prepare(opts *Options, unit []protoreflect.FileDescriptor) (*Crate, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	if opts.IsCPP() && g.thunks == nil {
		return nil, NewConfigError("kernel", opts.Kernel.String(), "dialect "+g.dialect.Name()+" cannot generate C++ thunks")
	}
	mapping, err := opts.ResolveCrateMapping()
	if err != nil {
		return nil, err
	}
	return NewCrate(unit, mapping)
}

// generateFile renders the outputs of file in memory.
func (g *Generator) generateFile(opts *Options, crate *Crate, file protoreflect.FileDescriptor) ([]pendingOutput, error) {
	path := file.Path()

	rs := NewPrinter()
	defer rs.WithVars(RsVars)()
	ctx := NewContext(opts, crate, file, rootModules(crate, file))
	ctx = ctx.WithPrinter(rs)
	writeHeader(rs, opts, path)
	outputs := []pendingOutput{{RsFile(opts, path), rs}}

	var cc *Printer
	if opts.IsCPP() {
		cc = NewPrinter()
		writeHeader(cc, opts, path)
		var skip func(string) bool
		if opts.StripNonfunctionalCodegen {
			skip = func(dep string) bool {
				f, ok := LookupFeatureProto(dep)
				if ok {
					g.logger.Debug("dropping feature include", "file", path, "import", dep, "language", f.Language)
				}
				return ok
			}
		}
		writeThunksPreamble(cc, file, skip)
		outputs = append(outputs, pendingOutput{ThunksCcFile(path), cc})
	}

	if crate.IsPrimary(file) {
		declareSubmodules(ctx)
	}
	if err := EmitPublicImports(ctx); err != nil {
		return nil, err
	}

	msgs := file.Messages()
	for i := 0; i < msgs.Len(); i++ {
		msg := msgs.Get(i)
		if err := g.dialect.GenMessage(ctx, msg); err != nil {
			return nil, NewGenerationError("message", path, string(msg.FullName()), err)
		}
		rs.PrintRaw("\n")
		if cc == nil {
			continue
		}
		tctx := ctx.WithPrinter(cc)
		writeMarker(tctx, msg)
		if err := g.thunks.GenMessageThunks(tctx, msg); err != nil {
			return nil, NewGenerationError("thunks", path, string(msg.FullName()), err)
		}
		cc.PrintRaw("\n")
	}

	enums := file.Enums()
	for i := 0; i < enums.Len(); i++ {
		enum := enums.Get(i)
		if err := g.dialect.GenEnum(ctx, enum); err != nil {
			return nil, NewGenerationError("enum", path, string(enum.FullName()), err)
		}
		rs.PrintRaw("\n")
		if cc == nil {
			continue
		}
		tctx := ctx.WithPrinter(cc)
		writeMarker(tctx, enum)
		if err := g.thunks.GenEnumThunks(tctx, enum); err != nil {
			return nil, NewGenerationError("thunks", path, string(enum.FullName()), err)
		}
		cc.PrintRaw("\n")
	}

	for _, o := range outputs {
		if err := o.printer.Err(); err != nil {
			return nil, NewGenerationError("emit", o.name, "", err)
		}
	}
	return outputs, nil
}

type pendingOutput struct {
	name    string
	printer *Printer
}

func (o pendingOutput) file() *File {
	return &File{Name: o.name, Content: o.printer.String()}
}

// rootModules returns the module the code of file is compiled into.
func rootModules(crate *Crate, file protoreflect.FileDescriptor) []string {
	if sub := crate.SubmoduleName(file); sub != "" {
		return []string{sub}
	}
	return nil
}

func writeHeader(p *Printer, opts *Options, source string) {
	p.Emit(Vars{"source": source}, `
		// Code generated by protoc-gen-rsproto. DO NOT EDIT.
		// source: $source$
	`)
	if !opts.StripNonfunctionalCodegen {
		p.Emit(Vars{"version": rsproto.Version}, `
			// version: $version$
		`)
	}
	p.PrintRaw("\n")
}

// writeThunksPreamble includes the header of file, the headers of its
// dependencies not rejected by skip and the runtime support headers.
func writeThunksPreamble(p *Printer, file protoreflect.FileDescriptor, skip func(path string) bool) {
	include := func(h string) {
		p.Emit(Vars{"header": h}, `
			#include "$header$"
		`)
	}
	include(HeaderFile(file.Path()))
	imports := file.Imports()
	for i := 0; i < imports.Len(); i++ {
		dep := imports.Get(i).Path()
		if skip != nil && skip(dep) {
			continue
		}
		include(HeaderFile(dep))
	}
	for _, h := range thunksSupportHeaders {
		include(h)
	}
	p.PrintRaw("\n")
}

// declareSubmodules makes the code of every non-primary file of the crate
// visible from the primary file's module.
func declareSubmodules(ctx *Context) {
	opts, crate := ctx.Options(), ctx.Crate()
	primary := RsFile(opts, crate.Primary().Path())
	for _, f := range crate.NonPrimary() {
		ctx.Emit(Vars{
			"file_path": RelativePath(primary, RsFile(opts, f.Path())),
			"mod_name":  crate.SubmoduleName(f),
		}, `
			#[path="$file_path$"]
			#[allow(non_snake_case)]
			mod $mod_name$;

			#[allow(unused_imports)]
			pub use $mod_name$::*;

		`)
	}
}

func writeMarker(ctx *Context, desc protoreflect.Descriptor) {
	ctx.Emit(Vars{"name": string(desc.FullName())}, `
		// $name$
	`)
}

// commit hands the rendered outputs to the driver. Drivers implementing
// Reserver have every name claimed before the first write.
func commit(out GeneratorContext, outputs []pendingOutput) error {
	if r, ok := out.(Reserver); ok {
		names := make([]string, len(outputs))
		for i, o := range outputs {
			names[i] = o.name
		}
		if err := r.Reserve(names...); err != nil {
			return err
		}
	}
	for _, o := range outputs {
		w, err := out.Open(o.name)
		if err != nil {
			return err
		}
		if _, err := o.printer.WriteTo(w); err != nil {
			w.Close()
			return NewGenerationError("write", o.name, "", err)
		}
		if err := w.Close(); err != nil {
			return NewGenerationError("write", o.name, "", err)
		}
	}
	return nil
}

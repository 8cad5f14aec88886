package gen

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// PublicImportClosure returns the files reachable from file through public
// imports only, file itself first. Siblings are visited in the order they
// are imported (depth-first pre-order) and no file is visited twice.
func PublicImportClosure(file protoreflect.FileDescriptor) []protoreflect.FileDescriptor {
	var (
		out     []protoreflect.FileDescriptor
		visited = make(map[string]bool)
		stack   = []protoreflect.FileDescriptor{file}
	)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.Path()] {
			continue
		}
		visited[f.Path()] = true
		out = append(out, f)
		imports := f.Imports()
		// Pushed in reverse so the first import is popped first.
		for i := imports.Len() - 1; i >= 0; i-- {
			imp := imports.Get(i)
			if imp.IsPublic && !visited[imp.Path()] {
				stack = append(stack, imp.FileDescriptor)
			}
		}
	}
	return out
}

// EmitPublicImports emits re-exports for the messages and enums of every
// file outside the crate that the file under generation exposes through
// public imports. Files in the crate are already visible and are skipped.
func EmitPublicImports(ctx *Context) error {
	for _, f := range PublicImportClosure(ctx.File()) {
		if ctx.Crate().Contains(f) {
			continue
		}
		if _, err := ctx.Crate().ExternalName(f); err != nil {
			return NewLookupError(ctx.File().Path(), f.Path())
		}
		if err := emitForwarding(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func emitForwarding(ctx *Context, f protoreflect.FileDescriptor) error {
	msgs := f.Messages()
	for i := 0; i < msgs.Len(); i++ {
		path, err := RsTypePath(ctx, msgs.Get(i))
		if err != nil {
			return err
		}
		ctx.Emit(Vars{"msg": path}, `
			pub use $msg$;
			pub use $msg$View;
			pub use $msg$Mut;
		`)
	}
	enums := f.Enums()
	for i := 0; i < enums.Len(); i++ {
		path, err := RsTypePath(ctx, enums.Get(i))
		if err != nil {
			return err
		}
		ctx.Emit(Vars{"enum": path}, `
			pub use $enum$;
		`)
	}
	return nil
}

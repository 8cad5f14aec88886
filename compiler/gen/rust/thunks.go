package rust

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto/compiler/gen"
)

// genMessageThunks generates the C++ functions the cpp kernel bindings of
// msg call, followed by those of its nested messages.
func genMessageThunks(ctx *gen.Context, msg protoreflect.MessageDescriptor) error {
	fields, err := accessorFields(ctx, msg)
	if err != nil {
		return err
	}
	qualified := gen.CppQualifiedName(msg)

	var accessors []string
	for _, f := range fields {
		get := "static_cast<" + qualified + "*>(msg)->" + f.ccName() + "()"
		val := "val"
		if f.isEnum() {
			get = "static_cast<int32_t>(" + get + ")"
			val = "static_cast<" + gen.CppQualifiedName(f.desc.Enum()) + ">(val)"
		}
		accessors = append(accessors,
			f.scalar.cc+" "+f.getterThunk()+"(void* msg) { return "+get+"; }",
			"void "+f.setterThunk()+"(void* msg, "+f.scalar.cc+" val) { static_cast<"+qualified+"*>(msg)->set_"+f.ccName()+"("+val+"); }",
		)
	}

	ctx.Emit(gen.Vars{
		"Msg":       qualified,
		"new":       gen.ThunkName(msg, "new"),
		"delete":    gen.ThunkName(msg, "delete"),
		"clear":     gen.ThunkName(msg, "clear"),
		"accessors": strings.Join(accessors, "\n"),
	}, `
		extern "C" {
		void* $new$() { return new $Msg$(); }
		void $delete$(void* msg) { delete static_cast<$Msg$*>(msg); }
		void $clear$(void* msg) { static_cast<$Msg$*>(msg)->Clear(); }
		$accessors$
		}  // extern "C"
	`)

	nested := msg.Messages()
	for i := 0; i < nested.Len(); i++ {
		ctx.Printer().PrintRaw("\n")
		if err := genMessageThunks(ctx, nested.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

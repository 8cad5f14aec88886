package rust

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto/compiler/gen"
)

// genMessage generates msg and, recursively, its nested types.
func genMessage(ctx *gen.Context, msg protoreflect.MessageDescriptor) error {
	fields, err := accessorFields(ctx, msg)
	if err != nil {
		return err
	}
	getters, err := genGetters(ctx, fields, "self.inner.msg")
	if err != nil {
		return err
	}
	setters, err := genSetters(ctx, fields, "self.inner.msg")
	if err != nil {
		return err
	}
	viewGetters, err := genGetters(ctx, fields, "self.msg")
	if err != nil {
		return err
	}
	mutSetters, err := genSetters(ctx, fields, "self.msg")
	if err != nil {
		return err
	}

	v := gen.Vars{
		"Msg":            gen.RsSafeName(string(msg.Name())),
		"accessors":      joinBlocks(getters, setters),
		"view_accessors": viewGetters,
		"mut_accessors":  joinBlocks(viewGetters, mutSetters),
	}
	if ctx.IsCPP() {
		v["new"] = "Self { inner: " + gen.RsVars["pbr"] + "::MessageInner { msg: unsafe { " + gen.ThunkName(msg, "new") + "() } } }"
		v["clear"] = "unsafe { " + gen.ThunkName(msg, "clear") + "(self.inner.msg) }"
	} else {
		v["minitable"] = miniTableName(msg)
		v["new"] = strings.Join([]string{
			"let arena = " + gen.RsVars["pbr"] + "::Arena::new();",
			"let msg = unsafe { " + gen.RsVars["pbr"] + "::upb_Message_New(&" + miniTableName(msg) + ", arena.raw()) };",
			"Self { inner: " + gen.RsVars["pbr"] + "::MessageInner { msg, arena } }",
		}, "\n")
		v["clear"] = "unsafe { " + gen.RsVars["pbr"] + "::upb_Message_Clear(self.inner.msg, &" + miniTableName(msg) + ") }"
	}

	ctx.Emit(v, `
		#[allow(non_camel_case_types)]
		pub struct $Msg$ {
		  inner: $pbr$::MessageInner,
		}

		impl $std$::default::Default for $Msg$ {
		  fn default() -> Self {
		    Self::new()
		  }
		}

		impl $Msg$ {
		  pub fn new() -> Self {
		    $new$
		  }

		  pub fn as_view(&self) -> $Msg$View<'_> {
		    $Msg$View::new($pbi$::Private, self.inner.msg)
		  }

		  pub fn as_mut(&mut self) -> $Msg$Mut<'_> {
		    $Msg$Mut::new($pbi$::Private, self.inner.msg)
		  }

		  pub fn clear(&mut self) {
		    $clear$
		  }

		  $accessors$
		}

		#[derive(Copy, Clone)]
		#[allow(dead_code)]
		pub struct $Msg$View<'msg> {
		  msg: $pbr$::RawMessage,
		  _phantom: $Phantom$<&'msg ()>,
		}

		impl<'msg> $Msg$View<'msg> {
		  #[doc(hidden)]
		  pub fn new(_private: $pbi$::Private, msg: $pbr$::RawMessage) -> Self {
		    Self { msg, _phantom: $Phantom$ }
		  }

		  $view_accessors$
		}

		#[allow(dead_code)]
		pub struct $Msg$Mut<'msg> {
		  msg: $pbr$::RawMessage,
		  _phantom: $Phantom$<&'msg mut ()>,
		}

		impl<'msg> $Msg$Mut<'msg> {
		  #[doc(hidden)]
		  pub fn new(_private: $pbi$::Private, msg: $pbr$::RawMessage) -> Self {
		    Self { msg, _phantom: $Phantom$ }
		  }

		  $mut_accessors$
		}
	`)

	if ctx.IsCPP() {
		genDrop(ctx, msg)
		genExternThunks(ctx, msg, fields)
	} else {
		ctx.Emit(v, `

			extern "C" {
			  static $minitable$: $pbr$::upb_MiniTable;
			}
		`)
	}
	return genNested(ctx, msg)
}

func genDrop(ctx *gen.Context, msg protoreflect.MessageDescriptor) {
	ctx.Emit(gen.Vars{
		"Msg":    gen.RsSafeName(string(msg.Name())),
		"delete": gen.ThunkName(msg, "delete"),
	}, `

		impl $std$::ops::Drop for $Msg$ {
		  fn drop(&mut self) {
		    unsafe { $delete$(self.inner.msg) }
		  }
		}
	`)
}

// genExternThunks declares the C++ functions the cpp kernel bindings call.
func genExternThunks(ctx *gen.Context, msg protoreflect.MessageDescriptor, fields []field) {
	var decls []string
	for _, f := range fields {
		decls = append(decls,
			"fn "+f.getterThunk()+"(raw_msg: "+gen.RsVars["pbr"]+"::RawMessage) -> "+f.scalar.rs+";",
			"fn "+f.setterThunk()+"(raw_msg: "+gen.RsVars["pbr"]+"::RawMessage, val: "+f.scalar.rs+");",
		)
	}
	ctx.Emit(gen.Vars{
		"new":    gen.ThunkName(msg, "new"),
		"delete": gen.ThunkName(msg, "delete"),
		"clear":  gen.ThunkName(msg, "clear"),
		"fields": strings.Join(decls, "\n"),
	}, `

		extern "C" {
		  fn $new$() -> $pbr$::RawMessage;
		  fn $delete$(raw_msg: $pbr$::RawMessage);
		  fn $clear$(raw_msg: $pbr$::RawMessage);
		  $fields$
		}
	`)
}

// genNested generates the nested messages and enums of msg into a module
// named after it.
func genNested(ctx *gen.Context, msg protoreflect.MessageDescriptor) error {
	msgs, enums := msg.Messages(), msg.Enums()
	if msgs.Len() == 0 && enums.Len() == 0 {
		return nil
	}
	mod := gen.ModuleName(msg)
	ctx.PushModule(mod)
	defer ctx.PopModule()

	p := newPrinter()
	nested := ctx.WithPrinter(p)
	for i := 0; i < msgs.Len(); i++ {
		if i > 0 {
			p.PrintRaw("\n")
		}
		if err := genMessage(nested, msgs.Get(i)); err != nil {
			return err
		}
	}
	for i := 0; i < enums.Len(); i++ {
		if msgs.Len() > 0 || i > 0 {
			p.PrintRaw("\n")
		}
		if err := genEnum(nested, enums.Get(i)); err != nil {
			return err
		}
	}
	body, err := text(p)
	if err != nil {
		return err
	}
	ctx.Emit(gen.Vars{"mod": mod, "body": body}, `

		pub mod $mod$ {
		  $body$
		}
	`)
	return nil
}

// miniTableName returns the upb mini table symbol of msg.
func miniTableName(msg protoreflect.MessageDescriptor) string {
	return strings.ReplaceAll(string(msg.FullName()), ".", "__") + "_msg_init"
}

// joinBlocks joins the non-empty blocks with a blank line.
func joinBlocks(blocks ...string) string {
	var out []string
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}

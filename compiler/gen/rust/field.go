package rust

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto/compiler/gen"
)

// scalar describes how a field kind crosses each runtime.
type scalar struct {
	rs  string // Rust type
	cc  string // C++ type
	upb string // suffix of the upb accessor functions
}

var scalars = map[protoreflect.Kind]scalar{
	protoreflect.BoolKind:     {"bool", "bool", "Bool"},
	protoreflect.Int32Kind:    {"i32", "int32_t", "Int32"},
	protoreflect.Sint32Kind:   {"i32", "int32_t", "Int32"},
	protoreflect.Sfixed32Kind: {"i32", "int32_t", "Int32"},
	protoreflect.Uint32Kind:   {"u32", "uint32_t", "UInt32"},
	protoreflect.Fixed32Kind:  {"u32", "uint32_t", "UInt32"},
	protoreflect.Int64Kind:    {"i64", "int64_t", "Int64"},
	protoreflect.Sint64Kind:   {"i64", "int64_t", "Int64"},
	protoreflect.Sfixed64Kind: {"i64", "int64_t", "Int64"},
	protoreflect.Uint64Kind:   {"u64", "uint64_t", "UInt64"},
	protoreflect.Fixed64Kind:  {"u64", "uint64_t", "UInt64"},
	protoreflect.FloatKind:    {"f32", "float", "Float"},
	protoreflect.DoubleKind:   {"f64", "double", "Double"},
	protoreflect.EnumKind:     {"i32", "int32_t", "Int32"},
}

// field is a singular scalar or enum field with accessors.
type field struct {
	desc   protoreflect.FieldDescriptor
	scalar scalar
	// rsType is the type exposed to users; for enums it differs from the
	// type crossing the boundary.
	rsType string
}

// accessorFields returns the fields of msg that get accessors, in
// declaration order.
func accessorFields(ctx *gen.Context, msg protoreflect.MessageDescriptor) ([]field, error) {
	var out []field
	fields := msg.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		s, ok := scalars[fd.Kind()]
		if !ok || fd.IsList() || fd.IsMap() {
			continue
		}
		f := field{desc: fd, scalar: s, rsType: s.rs}
		if fd.Kind() == protoreflect.EnumKind {
			path, err := gen.RsTypePath(ctx, fd.Enum())
			if err != nil {
				return nil, err
			}
			f.rsType = path
		}
		out = append(out, f)
	}
	return out, nil
}

func (f field) name() string { return string(f.desc.Name()) }

func (f field) isEnum() bool { return f.desc.Kind() == protoreflect.EnumKind }

// getterThunk returns the C++ function reading the field.
func (f field) getterThunk() string {
	return gen.ThunkName(f.desc.ContainingMessage(), "get_"+f.name())
}

// setterThunk returns the C++ function writing the field.
func (f field) setterThunk() string {
	return gen.ThunkName(f.desc.ContainingMessage(), "set_"+f.name())
}

// ccName returns the name of the field accessors in protoc's C++ code.
func (f field) ccName() string {
	return gen.CppSafeName(strings.ToLower(f.name()))
}

// vars returns the template variables describing f.
func (f field) vars(raw string) gen.Vars {
	return gen.Vars{
		"field":     gen.RsSafeName(f.name()),
		"raw_field": f.name(),
		"Type":      f.rsType,
		"abi":       f.scalar.rs,
		"upb":       f.scalar.upb,
		"number":    strconv.Itoa(int(f.desc.Number())),
		"getter":    f.getterThunk(),
		"setter":    f.setterThunk(),
		"raw":       raw,
	}
}

// fromABI converts expr, of the boundary type, to the user type.
func (f field) fromABI(expr string) string {
	switch {
	case !f.isEnum():
		return expr
	case f.desc.Enum().IsClosed():
		return f.rsType + "::try_from(" + expr + ").unwrap_or_default()"
	default:
		return f.rsType + "::from(" + expr + ")"
	}
}

// toABI converts expr, of the user type, to the boundary type.
func (f field) toABI(expr string) string {
	if f.isEnum() {
		return "i32::from(" + expr + ")"
	}
	return expr
}

// genGetters renders the getters of fields reading the message at raw.
func genGetters(ctx *gen.Context, fields []field, raw string) (string, error) {
	p := newPrinter()
	for i, f := range fields {
		if i > 0 {
			p.PrintRaw("\n")
		}
		v := f.vars(raw)
		if ctx.IsCPP() {
			v["value"] = f.fromABI("unsafe { " + f.getterThunk() + "(" + raw + ") }")
		} else {
			v["value"] = f.fromABI("unsafe { " + gen.RsVars["pbr"] + "::upb_Message_Get" + f.scalar.upb + "(" + raw + ", " + v["number"] + ") }")
		}
		p.Emit(v, `
			pub fn $field$(&self) -> $Type$ {
			  $value$
			}
		`)
	}
	return text(p)
}

// genSetters renders the setters of fields writing the message at raw.
func genSetters(ctx *gen.Context, fields []field, raw string) (string, error) {
	p := newPrinter()
	for i, f := range fields {
		if i > 0 {
			p.PrintRaw("\n")
		}
		v := f.vars(raw)
		v["val"] = f.toABI("val")
		if ctx.IsCPP() {
			p.Emit(v, `
				pub fn set_$raw_field$(&mut self, val: $Type$) {
				  unsafe { $setter$($raw$, $val$) }
				}
			`)
		} else {
			p.Emit(v, `
				pub fn set_$raw_field$(&mut self, val: $Type$) {
				  unsafe { $pbr$::upb_Message_Set$upb$($raw$, $number$, $val$) }
				}
			`)
		}
	}
	return text(p)
}

// text returns what p rendered without the trailing newlines.
func text(p *gen.Printer) (string, error) {
	if err := p.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(p.String(), "\n"), nil
}

package rust

import (
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto/compiler/gen"
)

// enumValue is a named constant of a generated enum.
type enumValue struct {
	name   string
	number int32
}

// enumValues returns the constants of enum in declaration order. Value
// names lose the enum name prefix and are CamelCased; a name already taken
// falls back to the raw value name, and aliases of a taken name are dropped.
func enumValues(enum protoreflect.EnumDescriptor) []enumValue {
	prefix := strings.ToUpper(inflect.Underscore(string(enum.Name()))) + "_"
	caser := cases.Title(language.Und)
	seen := make(map[string]bool)
	var out []enumValue
	values := enum.Values()
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		raw := string(v.Name())
		name := camelCase(caser, strings.TrimPrefix(raw, prefix))
		if name == "" || !isIdentStart(name[0]) {
			name = camelCase(caser, raw)
		}
		if seen[name] {
			name = raw
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, enumValue{name: gen.RsSafeName(name), number: int32(v.Number())})
	}
	return out
}

// camelCase converts a SCREAMING_SNAKE_CASE name to CamelCase.
func camelCase(caser cases.Caser, s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		b.WriteString(caser.String(strings.ToLower(part)))
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// genEnum generates enum as a transparent i32 newtype. Open enums accept
// every i32; closed enums only convert from their declared numbers.
func genEnum(ctx *gen.Context, enum protoreflect.EnumDescriptor) error {
	values := enumValues(enum)
	name := gen.RsSafeName(string(enum.Name()))

	consts := make([]string, 0, len(values))
	for _, v := range values {
		consts = append(consts, "pub const "+v.name+": "+name+" = "+name+"("+strconv.Itoa(int(v.number))+");")
	}
	v := gen.Vars{
		"Enum":    name,
		"consts":  strings.Join(consts, "\n"),
		"default": strconv.Itoa(int(enum.Values().Get(0).Number())),
	}
	ctx.Emit(v, `
		#[repr(transparent)]
		#[derive(Clone, Copy, PartialEq, Eq, Hash)]
		pub struct $Enum$(i32);

		#[allow(non_upper_case_globals)]
		impl $Enum$ {
		  $consts$
		}

		impl $std$::default::Default for $Enum$ {
		  fn default() -> Self {
		    Self($default$)
		  }
		}

		impl $std$::fmt::Debug for $Enum$ {
		  fn fmt(&self, f: &mut $std$::fmt::Formatter<'_>) -> $std$::fmt::Result {
		    f.debug_tuple(stringify!($Enum$)).field(&self.0).finish()
		  }
		}

		impl $std$::convert::From<$Enum$> for i32 {
		  fn from(val: $Enum$) -> i32 {
		    val.0
		  }
		}
	`)

	if !enum.IsClosed() {
		ctx.Emit(v, `

			impl $std$::convert::From<i32> for $Enum$ {
			  fn from(val: i32) -> $Enum$ {
			    Self(val)
			  }
			}
		`)
		return nil
	}

	numbers := make([]string, 0, len(values))
	seen := make(map[int32]bool)
	for _, val := range values {
		if !seen[val.number] {
			seen[val.number] = true
			numbers = append(numbers, strconv.Itoa(int(val.number)))
		}
	}
	v["known"] = strings.Join(numbers, " | ")
	ctx.Emit(v, `

		impl $std$::convert::TryFrom<i32> for $Enum$ {
		  type Error = i32;

		  fn try_from(val: i32) -> $Result$<$Enum$, i32> {
		    match val {
		      $known$ => $Result$::Ok(Self(val)),
		      _ => $Result$::Err(val),
		    }
		  }
		}
	`)
	return nil
}

package rust

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/syssam/rsproto/compiler/gen"
)

// Dialect implements gen.FullDialect.
type Dialect struct{}

// NewDialect creates the default dialect.
func NewDialect() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "rust"
}

// GenMessage generates the owned message, its View and Mut projections and
// a module holding its nested types.
func (d *Dialect) GenMessage(ctx *gen.Context, msg protoreflect.MessageDescriptor) error {
	return genMessage(ctx, msg)
}

// GenEnum generates an open or closed enum newtype.
func (d *Dialect) GenEnum(ctx *gen.Context, enum protoreflect.EnumDescriptor) error {
	return genEnum(ctx, enum)
}

// GenMessageThunks generates the extern "C" functions backing the message
// and its nested messages in the cpp kernel.
func (d *Dialect) GenMessageThunks(ctx *gen.Context, msg protoreflect.MessageDescriptor) error {
	return genMessageThunks(ctx, msg)
}

// GenEnumThunks generates nothing: enums are plain integers across the
// boundary.
func (d *Dialect) GenEnumThunks(*gen.Context, protoreflect.EnumDescriptor) error {
	return nil
}

// Ensure Dialect serves both kernels.
var _ gen.FullDialect = (*Dialect)(nil)

// newPrinter returns a printer with the runtime paths bound.
func newPrinter() *gen.Printer {
	p := gen.NewPrinter()
	p.WithVars(gen.RsVars)
	return p
}

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rsproto/internal/protobuild"
)

func TestContext(t *testing.T) {
	reg := protobuild.Registry(t, protobuild.File{Path: "a.proto", Package: "a"})
	unit := protobuild.Lookup(t, reg, "a.proto")
	crate, err := NewCrate(unit, nil)
	require.NoError(t, err)
	opts := &Options{Kernel: KernelCPP}

	t.Run("accessors", func(t *testing.T) {
		ctx := NewContext(opts, crate, unit[0], nil)
		assert.Same(t, opts, ctx.Options())
		assert.Same(t, crate, ctx.Crate())
		assert.Equal(t, "a.proto", ctx.File().Path())
		assert.Nil(t, ctx.Printer())
		assert.True(t, ctx.IsCPP())
		assert.False(t, ctx.IsUPB())
		assert.Empty(t, ctx.Modules())
	})

	t.Run("with printer shares state", func(t *testing.T) {
		ctx := NewContext(opts, crate, unit[0], []string{"m"})
		p := NewPrinter()
		sibling := ctx.WithPrinter(p)
		assert.Same(t, p, sibling.Printer())
		assert.Same(t, ctx.Options(), sibling.Options())
		assert.Same(t, ctx.Crate(), sibling.Crate())
		assert.Equal(t, ctx.Modules(), sibling.Modules())

		sibling.Emit(Vars{"x": "1"}, "let x = $x$;\n")
		assert.Equal(t, "let x = 1;\n", p.String())
	})

	t.Run("module stack", func(t *testing.T) {
		ctx := NewContext(opts, crate, unit[0], nil)
		ctx.PushModule("outer")
		ctx.PushModule("inner")
		assert.Equal(t, []string{"outer", "inner"}, ctx.Modules())

		sibling := ctx.WithPrinter(NewPrinter())
		sibling.PopModule()
		assert.Equal(t, []string{"outer", "inner"}, ctx.Modules(), "siblings own their stack")

		ctx.PopModule()
		ctx.PopModule()
		assert.Empty(t, ctx.Modules())
		assert.Panics(t, ctx.PopModule)
	})

	t.Run("modules are copied", func(t *testing.T) {
		mods := []string{"a"}
		ctx := NewContext(opts, crate, unit[0], mods)
		mods[0] = "b"
		got := ctx.Modules()
		got[0] = "c"
		assert.Equal(t, []string{"a"}, ctx.Modules())
	})
}

package gen

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOutput(t *testing.T) {
	out := NewMemoryOutput(nil)
	assert.Empty(t, out.ListParsedFiles())

	w, err := out.Open("b.u.pb.rs")
	require.NoError(t, err)
	_, err = io.WriteString(w, "b")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = out.Open("a.u.pb.rs")
	require.NoError(t, err)
	_, err = io.WriteString(w, "a")
	require.NoError(t, err)

	_, err = out.Open("b.u.pb.rs")
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))

	files := out.Files()
	require.Len(t, files, 2)
	assert.Equal(t, &File{Name: "b.u.pb.rs", Content: "b"}, files[0])
	assert.Equal(t, &File{Name: "a.u.pb.rs", Content: "a"}, files[1])

	t.Run("reserve", func(t *testing.T) {
		err := out.Reserve("c.c.pb.rs", "a.u.pb.rs")
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))

		err = out.Reserve("c.c.pb.rs", "c.c.pb.rs")
		require.Error(t, err)

		// a failed reservation claims nothing
		require.NoError(t, out.Reserve("c.c.pb.rs", "c.pb.thunks.cc"))
		assert.Error(t, out.Reserve("c.pb.thunks.cc"))
		_, ok := out.Content("c.c.pb.rs")
		assert.False(t, ok)

		w, err := out.Open("c.c.pb.rs")
		require.NoError(t, err)
		require.NoError(t, w.Close())
		_, err = out.Open("c.c.pb.rs")
		assert.Error(t, err)
	})

	content, ok := out.Content("a.u.pb.rs")
	assert.True(t, ok)
	assert.Equal(t, "a", content)
	_, ok = out.Content("c.u.pb.rs")
	assert.False(t, ok)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	err := WriteFiles(dir, []*File{
		{Name: "a.u.pb.rs", Content: "a"},
		{Name: "nested/dir/b.pb.thunks.cc", Content: "b"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.u.pb.rs"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "nested", "dir", "b.pb.thunks.cc"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	t.Run("all or nothing", func(t *testing.T) {
		for name, blocked := range map[string]string{
			"directory target": "taken.pb.thunks.cc",
			"file as parent":   "blocker/c.pb.thunks.cc",
		} {
			t.Run(name, func(t *testing.T) {
				dir := t.TempDir()
				require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.pb.thunks.cc"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), nil, 0o644))

				err := WriteFiles(dir, []*File{
					{Name: "c.c.pb.rs", Content: "c"},
					{Name: blocked, Content: "cc"},
				})
				require.Error(t, err)
				assert.NoFileExists(t, filepath.Join(dir, "c.c.pb.rs"))

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				var names []string
				for _, e := range entries {
					names = append(names, e.Name())
				}
				assert.ElementsMatch(t, []string{"taken.pb.thunks.cc", "blocker"}, names)
			})
		}
	})

	t.Run("overwrites", func(t *testing.T) {
		require.NoError(t, WriteFiles(dir, []*File{{Name: "a.u.pb.rs", Content: "new"}}))
		data, err := os.ReadFile(filepath.Join(dir, "a.u.pb.rs"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})
}

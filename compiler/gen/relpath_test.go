package gen

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativePath(t *testing.T) {
	tests := []struct {
		from, to string
		want     string
	}{
		{"a.u.pb.rs", "b.u.pb.rs", "b.u.pb.rs"},
		{"a.u.pb.rs", "sub/b.u.pb.rs", "sub/b.u.pb.rs"},
		{"dir/a.u.pb.rs", "dir/b.u.pb.rs", "b.u.pb.rs"},
		{"dir/a.u.pb.rs", "b.u.pb.rs", "../b.u.pb.rs"},
		{"dir/sub/a.u.pb.rs", "dir/other/b.u.pb.rs", "../other/b.u.pb.rs"},
		{"x/y/z/a.u.pb.rs", "p/q/b.u.pb.rs", "../../../p/q/b.u.pb.rs"},
		{"dir/a.u.pb.rs", "dir/dir/b.u.pb.rs", "dir/b.u.pb.rs"},
		{"./dir/a.u.pb.rs", "dir//b.u.pb.rs", "b.u.pb.rs"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got := RelativePath(tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, path.Clean(tt.to), path.Join(path.Dir(tt.from), got))
		})
	}
}

package tool

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestReadFileTool(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("hello world"))
	binary := []byte{0xff, 0xfe, 0x00, 0x01}
	writeFile(t, filepath.Join(root, "data.bin"), binary)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	registry := NewRegistry().Add(NewReadFileTool(WithBasePath(root)))

	t.Run("text file", func(t *testing.T) {
		out, err := registry.Dispatch(ctx, "read_file", `{"file_path":"notes.txt"}`)
		require.NoError(t, err)
		assert.Equal(t, "hello world", out)
	})

	t.Run("binary file is a hexdump", func(t *testing.T) {
		out, err := registry.Dispatch(ctx, "read_file", `{"file_path":"data.bin"}`)
		require.NoError(t, err)
		assert.Equal(t, hex.Dump(binary), out)
	})

	t.Run("problems are reported to the model", func(t *testing.T) {
		cases := map[string]string{
			`{"file_path":"missing.txt"}`:   "Fail to get metadata",
			`{"file_path":"sub"}`:           "is a directory",
			`{"file_path":"../etc/passwd"}`: "contains '..'",
			`{"file_path":"/etc/passwd"}`:   "is an absolute path",
		}
		for args, want := range cases {
			out, err := registry.Dispatch(ctx, "read_file", args)
			require.NoError(t, err, args)
			assert.Contains(t, out, want, args)
		}
	})

	t.Run("respects max size", func(t *testing.T) {
		small := NewReadFileTool(WithBasePath(root), WithMaxFileSize(5))
		out, err := small.Call(ctx, []byte(`{"file_path":"notes.txt"}`))
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})
}

func TestListDirTool(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("abc"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))

	list := NewListDirTool(WithBasePath(root))

	t.Run("lists root", func(t *testing.T) {
		out, err := list.Call(ctx, []byte(`{"relative_path":"."}`))
		require.NoError(t, err)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, `The contents of folder "." is:`, lines[0])
		assert.Equal(t, "name\ttype\tsize", lines[1])
		assert.Equal(t, "\"a.txt\"\tfile\t3", lines[2])
		assert.True(t, strings.HasPrefix(lines[3], "\"docs\"\tdirectory\t"))
	})

	t.Run("not a directory", func(t *testing.T) {
		out, err := list.Call(ctx, []byte(`{"relative_path":"a.txt"}`))
		require.NoError(t, err)
		assert.Equal(t, `"a.txt" is not a directory`, out)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		out, err := list.Call(ctx, []byte(`{"relative_path":"docs/../.."}`))
		require.NoError(t, err)
		assert.Contains(t, out, "contains '..'")
	})
}

func TestSearchTool(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"))
	writeFile(t, filepath.Join(root, "pkg", "util.go"), []byte("package pkg\n\nfunc helper() {}\n"))
	writeFile(t, filepath.Join(root, "README.md"), []byte("func in docs\n"))

	t.Run("matches across the tree", func(t *testing.T) {
		search := NewSearchTool(0, WithBasePath(root))
		out, err := search.Call(ctx, []byte(`{"pattern":"^func","file_glob":"*.go"}`))
		require.NoError(t, err)
		assert.Equal(t, "main.go:3: func main() {}\n"+filepath.Join("pkg", "util.go")+":3: func helper() {}", out)
	})

	t.Run("limits results", func(t *testing.T) {
		search := NewSearchTool(1, WithBasePath(root))
		out, err := search.Call(ctx, []byte(`{"pattern":"package"}`))
		require.NoError(t, err)
		assert.Len(t, strings.Split(out, "\n"), 1)
	})

	t.Run("no matches", func(t *testing.T) {
		search := NewSearchTool(10, WithBasePath(root))
		out, err := search.Call(ctx, []byte(`{"pattern":"nothing_here","relative_path":"pkg"}`))
		require.NoError(t, err)
		assert.Equal(t, `No matches for "nothing_here" under "pkg"`, out)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		search := NewSearchTool(10, WithBasePath(root))
		out, err := search.Call(ctx, []byte(`{"pattern":"("}`))
		require.NoError(t, err)
		assert.Contains(t, out, "invalid pattern")
	})
}

func TestFileTools(t *testing.T) {
	registry := NewRegistry().Add(FileTools()...)
	assert.Equal(t, []string{"list_dir", "read_file"}, registry.Names())
}

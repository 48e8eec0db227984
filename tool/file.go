package tool

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// FileToolOption configures file tools.
type FileToolOption func(*fileToolConfig)

type fileToolConfig struct {
	basePath    string
	maxFileSize int64
}

// WithBasePath roots file operations at path. Paths given by the model are
// resolved relative to it.
func WithBasePath(path string) FileToolOption {
	return func(c *fileToolConfig) {
		c.basePath = path
	}
}

// WithMaxFileSize sets the maximum number of bytes read_file returns.
// Default is 1MB.
func WithMaxFileSize(bytes int64) FileToolOption {
	return func(c *fileToolConfig) {
		c.maxFileSize = bytes
	}
}

func applyFileOpts(opts []FileToolOption) *fileToolConfig {
	cfg := &fileToolConfig{
		basePath:    ".",
		maxFileSize: 1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// checkRelative rejects absolute paths and any path containing "..".
// The returned message is meant for the model, not the caller.
func checkRelative(path string) (string, bool) {
	if filepath.IsAbs(path) {
		return fmt.Sprintf("%q is an absolute path", path), false
	}
	if lo.Contains(strings.Split(filepath.ToSlash(path), "/"), "..") {
		return fmt.Sprintf("%q contains '..'", path), false
	}
	return "", true
}

// ReadFileArgs are the arguments of the read_file tool.
type ReadFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required,description=Path of the file to read relative to the root directory"`
}

// NewReadFileTool creates read_file. Text files are returned as-is; binary
// files are returned as a hexdump. Problems the model can fix (missing file,
// directory, bad path) are reported as the tool result rather than an error.
func NewReadFileTool(opts ...FileToolOption) *Typed[ReadFileArgs] {
	cfg := applyFileOpts(opts)

	return MustNew("read_file",
		"Read file contents of the path `file_path`. The result will be hexdump if the file is a binary file.",
		func(ctx context.Context, args ReadFileArgs) (string, error) {
			if msg, ok := checkRelative(args.FilePath); !ok {
				return msg, nil
			}
			path := filepath.Join(cfg.basePath, args.FilePath)
			log.Info().Str("path", path).Msg("reading file")

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Sprintf("Fail to get metadata of %q due to %v", args.FilePath, err), nil
			}
			if info.IsDir() {
				return fmt.Sprintf("Path %q is a directory", args.FilePath), nil
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Sprintf("Fail to open %q due to %v", args.FilePath, err), nil
			}
			defer f.Close()

			content, err := io.ReadAll(io.LimitReader(f, cfg.maxFileSize))
			if err != nil {
				return "", err
			}

			if utf8.Valid(content) {
				return string(content), nil
			}
			return hex.Dump(content), nil
		})
}

// ListDirArgs are the arguments of the list_dir tool.
type ListDirArgs struct {
	RelativePath string `json:"relative_path" jsonschema:"required,description=Directory to list relative to the root directory; use . for the root"`
}

// NewListDirTool creates list_dir, which lists one directory level as
// tab-separated name, type and size.
func NewListDirTool(opts ...FileToolOption) *Typed[ListDirArgs] {
	cfg := applyFileOpts(opts)

	return MustNew("list_dir",
		"List a given directory entries. '.' is allowed to list entries of the root directory but '..' is not allowed to avoid path traversal. Absolute path is not allowed and you shall always use relative path to the root directory.",
		func(ctx context.Context, args ListDirArgs) (string, error) {
			if msg, ok := checkRelative(args.RelativePath); !ok {
				return msg, nil
			}
			path := filepath.Join(cfg.basePath, args.RelativePath)

			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				return fmt.Sprintf("%q is not a directory", args.RelativePath), nil
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return "", err
			}

			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				info, err := e.Info()
				if err != nil {
					return "", err
				}
				kind := ""
				switch {
				case info.Mode()&os.ModeSymlink != 0:
					kind = "symlink"
				case info.IsDir():
					kind = "directory"
				case info.Mode().IsRegular():
					kind = "file"
				}
				lines = append(lines, fmt.Sprintf("%q\t%s\t%d", e.Name(), kind, info.Size()))
			}

			return fmt.Sprintf("The contents of folder %q is:\nname\ttype\tsize\n%s",
				args.RelativePath, strings.Join(lines, "\n")), nil
		})
}

// FileTools returns read_file and list_dir sharing the same options.
func FileTools(opts ...FileToolOption) []Tool {
	return []Tool{NewReadFileTool(opts...), NewListDirTool(opts...)}
}

package tool

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxLineLength = 200

// SearchArgs are the arguments of the search_files tool.
type SearchArgs struct {
	Pattern      string `json:"pattern" jsonschema:"required,description=Regular expression to search for"`
	RelativePath string `json:"relative_path,omitempty" jsonschema:"description=Directory to search relative to the root directory; defaults to the root"`
	FileGlob     string `json:"file_glob,omitempty" jsonschema:"description=Only search files whose name matches this glob such as *.go"`
}

// NewSearchTool creates search_files, a recursive regex search over file
// contents rooted at the base path. At most maxResults matching lines are
// returned, one per line as path:line: text.
func NewSearchTool(maxResults int, opts ...FileToolOption) *Typed[SearchArgs] {
	cfg := applyFileOpts(opts)
	if maxResults <= 0 {
		maxResults = 100
	}

	return MustNew("search_files",
		"Search file contents under a directory for a regular expression. Paths must be relative to the root directory and must not contain '..'.",
		func(ctx context.Context, args SearchArgs) (string, error) {
			rel := args.RelativePath
			if rel == "" {
				rel = "."
			}
			if msg, ok := checkRelative(rel); !ok {
				return msg, nil
			}
			re, err := regexp.Compile(args.Pattern)
			if err != nil {
				return fmt.Sprintf("invalid pattern %q: %v", args.Pattern, err), nil
			}

			root := filepath.Join(cfg.basePath, rel)
			var matches []string

			err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if d.IsDir() {
					return nil
				}
				if args.FileGlob != "" {
					if ok, _ := filepath.Match(args.FileGlob, d.Name()); !ok {
						return nil
					}
				}
				if info, err := d.Info(); err != nil || info.Size() > cfg.maxFileSize {
					return nil
				}

				f, err := os.Open(path)
				if err != nil {
					return nil
				}
				defer f.Close()

				display, _ := filepath.Rel(cfg.basePath, path)
				scanner := bufio.NewScanner(f)
				for n := 1; scanner.Scan(); n++ {
					line := scanner.Text()
					if !re.MatchString(line) {
						continue
					}
					if len(line) > maxLineLength {
						line = line[:maxLineLength] + "..."
					}
					matches = append(matches, fmt.Sprintf("%s:%d: %s", display, n, strings.TrimSpace(line)))
					if len(matches) >= maxResults {
						return filepath.SkipAll
					}
				}
				return nil
			})
			if err != nil {
				return "", err
			}

			if len(matches) == 0 {
				return fmt.Sprintf("No matches for %q under %q", args.Pattern, rel), nil
			}
			return strings.Join(matches, "\n"), nil
		})
}

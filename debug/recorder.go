// Package debug writes completion transcripts to disk for offline inspection.
//
// Each completion attempt takes one Slot. A slot names a pair of files under
// <dir>/<pid>: a human-readable transcript "<prefix>-<index>" and a JSON
// sibling "<prefix>-<index>.json". Indices are issued by an atomic counter,
// so agents sharing one Recorder never collide.
//
// Recording is best effort. Write failures are logged and never returned.
// A nil *Recorder is valid and records nothing.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ai "github.com/spetersoncode/toolrun"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for write failures.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// WithPID overrides the process id used for the session directory.
func WithPID(pid int) Option {
	return func(r *Recorder) {
		r.pid = pid
	}
}

// Recorder owns a session directory and a sequence counter.
type Recorder struct {
	dir    string
	pid    int
	seq    atomic.Uint64
	logger zerolog.Logger
}

// New creates <root>/<pid>. A directory left over from an earlier process
// with the same pid is removed first.
func New(root string, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		pid:    os.Getpid(),
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.dir = filepath.Join(root, strconv.Itoa(r.pid))
	if _, err := os.Stat(r.dir); err == nil {
		r.logger.Warn().Str("dir", r.dir).Msg("debug directory exists, pid clash; removing")
		if err := os.RemoveAll(r.dir); err != nil {
			return nil, fmt.Errorf("debug: remove stale directory: %w", err)
		}
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("debug: create directory: %w", err)
	}
	return r, nil
}

// Dir returns the session directory, or "" for a nil recorder.
func (r *Recorder) Dir() string {
	if r == nil {
		return ""
	}
	return r.dir
}

// Slot identifies one transcript pair.
type Slot struct {
	Index  uint64
	Prefix string
	path   string
	req    *ai.Request
}

// Path returns the transcript path, or "" when recording is disabled.
func (s *Slot) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NextSlot issues the next index. It returns nil for a nil recorder.
func (r *Recorder) NextSlot(prefix string) *Slot {
	if r == nil {
		return nil
	}
	if prefix == "" {
		prefix = "llm"
	}
	idx := r.seq.Add(1) - 1
	return &Slot{
		Index:  idx,
		Prefix: prefix,
		path:   filepath.Join(r.dir, fmt.Sprintf("%s-%012d", prefix, idx)),
	}
}

type record struct {
	Request  *ai.Request  `json:"request,omitempty"`
	Response *ai.Response `json:"response,omitempty"`
}

// RecordRequest writes the outgoing request.
func (r *Recorder) RecordRequest(slot *Slot, req *ai.Request) {
	if r == nil || slot == nil {
		return
	}
	slot.req = req

	if err := os.WriteFile(slot.path, []byte(renderRequest(req)), 0o644); err != nil {
		r.logger.Warn().Err(err).Str("path", slot.path).Msg("failed to save request")
	}
	r.writeJSON(slot, record{Request: req})
}

// RecordResponse appends the response to the transcript and rewrites the
// JSON sibling with both halves.
func (r *Recorder) RecordResponse(slot *Slot, resp *ai.Response) {
	if r == nil || slot == nil {
		return
	}

	f, err := os.OpenFile(slot.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", slot.path).Msg("failed to save response")
	} else {
		if _, err := f.WriteString(renderResponse(resp)); err != nil {
			r.logger.Warn().Err(err).Str("path", slot.path).Msg("failed to save response")
		}
		f.Close()
	}
	r.writeJSON(slot, record{Request: slot.req, Response: resp})
}

func (r *Recorder) writeJSON(slot *Slot, rec record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		data = []byte(err.Error())
	}
	if err := os.WriteFile(slot.path+".json", data, 0o644); err != nil {
		r.logger.Warn().Err(err).Str("path", slot.path+".json").Msg("failed to save json")
	}
}

func renderRequest(req *ai.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "model: %s\n", req.Model)
	fmt.Fprintf(&b, "temperature: %g presence_penalty: %g max_completion_tokens: %d tool_choice: %s\n",
		req.Settings.Temperature, req.Settings.PresencePenalty, req.Settings.MaxCompletionTokens, req.Settings.ToolChoice)

	for _, m := range req.Messages {
		renderMessage(&b, m)
	}

	if len(req.Tools) > 0 {
		b.WriteString("\n====Tools====\n")
		for _, t := range req.Tools {
			fmt.Fprintf(&b, "%s: %s\n%s\n", t.Name, t.Description, string(t.Parameters))
		}
	}
	return b.String()
}

func renderMessage(b *strings.Builder, m ai.Message) {
	fmt.Fprintf(b, "\n====%s====\n", strings.ToUpper(string(m.Role)))
	switch {
	case len(m.ToolCalls) > 0:
		for _, c := range m.ToolCalls {
			fmt.Fprintf(b, "call %s %s(%s)\n", c.ID, c.Name, c.Arguments)
		}
	case m.Refusal != "":
		fmt.Fprintf(b, "refusal: %s\n", m.Refusal)
	default:
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
}

func renderResponse(resp *ai.Response) string {
	var b strings.Builder
	b.WriteString("\n====Resp=====\n")
	choice, ok := resp.FirstChoice()
	if !ok {
		b.WriteString("(no choices)\n")
		return b.String()
	}
	fmt.Fprintf(&b, "finish: %s\n", choice.FinishReason)
	renderMessage(&b, choice.Message)
	if resp.Usage != nil {
		fmt.Fprintf(&b, "\nusage: prompt=%d completion=%d\n", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}
	return b.String()
}

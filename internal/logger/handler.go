package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to drop records by tag, package or file.
type filteringHandler struct {
	base    slog.Handler
	filters *filters
	tag     string // tag carried by WithAttrs, if any
}

func newFilteringHandler(base slog.Handler, f *filters) *filteringHandler {
	return &filteringHandler{base: base, filters: f}
}

// Enabled checks if the level is enabled by the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// allowed applies the usual rule: a disabled entry always wins, and a
// non-empty enabled set admits only its members.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	key = strings.ToLower(key)
	if _, found := disabled[key]; found {
		return false
	}
	if enabled != nil {
		_, found := enabled[key]
		return found
	}
	return true
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.filters == nil {
		return h.base.Handle(ctx, r)
	}

	if pkg, file, ok := recordSource(r); ok {
		if !allowed(h.filters.enabledPackages, h.filters.disabledPackages, pkg) {
			return nil
		}
		if !allowed(h.filters.enabledFiles, h.filters.disabledFiles, file) {
			return nil
		}
	}

	tag := h.tag
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = a.Value.String()
			return false
		}
		return true
	})

	if tag == "" {
		// Untagged messages are dropped once specific tags are requested.
		if h.filters.enabledTags != nil {
			return nil
		}
	} else if !allowed(h.filters.enabledTags, h.filters.disabledTags, tag) {
		return nil
	}

	return h.base.Handle(ctx, r)
}

// recordSource returns the package directory and file name the record was logged from.
func recordSource(r slog.Record) (pkg, file string, ok bool) {
	if r.PC == 0 {
		return "", "", false
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &filteringHandler{base: h.base.WithAttrs(attrs), filters: h.filters, tag: h.tag}
	for _, a := range attrs {
		if a.Key == tagKey {
			next.tag = a.Value.String()
		}
	}
	return next
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{base: h.base.WithGroup(name), filters: h.filters, tag: h.tag}
}

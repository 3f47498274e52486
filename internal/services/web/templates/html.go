package templates

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Attr is one HTML attribute. Flag renders a boolean attribute; Omit drops it.
type Attr struct {
	Key   string
	Value string
	Flag  bool
	Omit  bool
}

// A builds a key="value" attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Flag builds a boolean attribute.
func Flag(key string) Attr {
	return Attr{Key: key, Flag: true}
}

// Class joins the non-empty class names into one class attribute.
func Class(names ...string) Attr {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return Attr{Omit: true}
	}
	return Attr{Key: "class", Value: strings.Join(parts, " ")}
}

// If keeps attr only when cond holds.
func If(cond bool, attr Attr) Attr {
	if !cond {
		return Attr{Omit: true}
	}
	return attr
}

// Spread converts templ attributes in key order. Strings become values,
// true booleans become flags, everything else is formatted with %v.
func Spread(attrs templ.Attributes) []Attr {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Attr, 0, len(keys))
	for _, key := range keys {
		switch value := attrs[key].(type) {
		case string:
			out = append(out, A(key, value))
		case bool:
			out = append(out, If(value, Flag(key)))
		case nil:
		default:
			out = append(out, A(key, fmt.Sprint(value)))
		}
	}
	return out
}

// HTML writes markup to w and keeps the first write error. Text and
// attribute values are escaped; Raw is written as is.
type HTML struct {
	w   io.Writer
	err error
}

func newHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup.
func (h *HTML) Raw(markup string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, markup)
	}
	return h
}

// Text writes escaped text.
func (h *HTML) Text(text string) *HTML {
	return h.Raw(templ.EscapeString(text))
}

// Open writes a start tag.
func (h *HTML) Open(tag string, attrs ...Attr) *HTML {
	h.Raw("<" + tag)
	h.attrs(attrs)
	return h.Raw(">")
}

// Void writes a tag without content, e.g. input or img.
func (h *HTML) Void(tag string, attrs ...Attr) *HTML {
	return h.Open(tag, attrs...)
}

// Close writes an end tag.
func (h *HTML) Close(tag string) *HTML {
	return h.Raw("</" + tag + ">")
}

// Elem writes tag wrapping escaped text.
func (h *HTML) Elem(tag string, text string, attrs ...Attr) *HTML {
	return h.Open(tag, attrs...).Text(text).Close(tag)
}

// Component renders c in place. A nil component writes nothing.
func (h *HTML) Component(ctx context.Context, c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
	return h
}

// Err returns the first write or render error.
func (h *HTML) Err() error {
	return h.err
}

func (h *HTML) attrs(attrs []Attr) {
	for _, attr := range attrs {
		if attr.Omit || strings.TrimSpace(attr.Key) == "" {
			continue
		}
		if attr.Flag {
			h.Raw(" " + attr.Key)
			continue
		}
		h.Raw(" " + attr.Key + `="` + templ.EscapeString(attr.Value) + `"`)
	}
}

// Fragment wraps a writer function as a component. Like generated templ
// components it renders nothing once ctx is done.
func Fragment(render func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		h := newHTML(w)
		render(ctx, h)
		return h.Err()
	})
}

package codec

import (
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// listField maps one "### Header" subsection onto a string slice of T.
type listField[T any] struct {
	Header  string
	Aliases []string
	Get     func(*T) *[]string
}

// listFamily describes records made of a date plus fixed list subsections,
// the shape shared by retrospectives, analyses and canvases.
type listFamily[T any] struct {
	section string
	fields  []string
	lists   []listField[T]
	// paragraphs keeps prose paragraphs as list entries.
	paragraphs bool
	head       func(*T) (id, title, date *string)
	decode     func(*T, markdown.Record)
	encode     func(*T, *markdown.Writer)
}

func (f listFamily[T]) family() Family[T] {
	return Family[T]{
		Section: f.section,
		Parse:   f.parse,
		Format:  f.format,
		ID: func(v *T) *string {
			id, _, _ := f.head(v)
			return id
		},
	}
}

func (f listFamily[T]) parse(lines []string) []T {
	schema := markdown.Schema{Section: f.section, Fields: append([]string{"Date"}, f.fields...)}
	var out []T
	for _, r := range markdown.ScanRecords(lines, schema) {
		var v T
		id, title, date := f.head(&v)
		*id, *title, *date = r.ID, r.Title, r.Field("Date")
		for _, lf := range f.lists {
			sub := r.Sub(append([]string{lf.Header}, lf.Aliases...)...)
			if f.paragraphs {
				*lf.Get(&v) = sub.Paragraphs()
			} else {
				*lf.Get(&v) = sub.Items()
			}
		}
		if f.decode != nil {
			f.decode(&v, r)
		}
		out = append(out, v)
	}
	return out
}

func (f listFamily[T]) format(items []T) []string {
	w := markdown.NewSectionWriter(f.section)
	for i := range items {
		v := &items[i]
		id, title, date := f.head(v)
		w.Line("## "+*title).Meta("id", *id).Field("Date", *date)
		if f.encode != nil {
			f.encode(v, w)
		}
		w.Blank()
		for _, lf := range f.lists {
			w.Line("### " + lf.Header).Items(*lf.Get(v)).Blank()
		}
	}
	return w.Lines()
}

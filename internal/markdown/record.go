package markdown

import "strings"

// LineKind classifies a line inside a subsection.
type LineKind int

const (
	LineItem LineKind = iota
	LineText
	LineField
	LineComment
	LineBlank
)

// Line is one classified line of a subsection or entry body.
type Line struct {
	Kind  LineKind
	Key   string
	Value string
}

// Block is a level-3 subsection or a level-4 entry inside one. Lines keep
// their document order so family decoders can group them as they need.
type Block struct {
	Title   string
	Lines   []Line
	Entries []*Block
}

// Record is one level-2 heading and everything under it up to the next
// record or the end of the section.
type Record struct {
	Title       string
	Config      map[string]string
	ID          string
	Fields      map[string]string
	Meta        map[string]string
	Text        []string
	Subsections []*Block
}

// Schema configures ScanRecords for one entity family.
type Schema struct {
	// Section is the section name passed to Locate.
	Section string
	// Fields lists the "Key: value" keys recognized as scalar fields, both at
	// record level and inside subsections. Other lines are free text.
	Fields []string
	// Config splits a trailing "{k: v}" block off record headings into
	// Record.Config. Families without heading blocks keep braces in the title.
	Config bool
	// Required decides whether a finished record is kept. Nil keeps records
	// with a non-empty title.
	Required func(Record) bool
}

// ScanRecords walks the named section and returns its records in document
// order. It never fails: unrecognized lines are absorbed into free text and
// records rejected by the schema are dropped.
func ScanRecords(lines []string, schema Schema) []Record {
	r := Locate(lines, schema.Section)
	if !r.Found() {
		return nil
	}
	heading := Heading(schema.Section)
	known := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		known[f] = true
	}
	keep := schema.Required
	if keep == nil {
		keep = func(rec Record) bool { return rec.Title != "" }
	}

	var (
		out   []Record
		cur   *Record
		sub   *Block
		entry *Block
	)
	flush := func() {
		if cur != nil && keep(*cur) {
			out = append(out, *cur)
		}
		cur, sub, entry = nil, nil, nil
	}

	for _, raw := range lines[r.Start:r.End] {
		line := strings.TrimSpace(raw)
		switch {
		case line == heading:
			continue
		case isLevel1(raw):
			flush()
			continue
		case strings.HasPrefix(line, "## ") || line == "##":
			flush()
			title, block := strings.TrimSpace(line[2:]), ""
			if schema.Config {
				title, block = SplitHeading(title)
			}
			cur = &Record{
				Title:  title,
				Config: ParseConfigBlock(block),
				Fields: map[string]string{},
				Meta:   map[string]string{},
			}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#### "):
			if sub == nil {
				sub = &Block{}
				cur.Subsections = append(cur.Subsections, sub)
			}
			entry = &Block{Title: strings.TrimSpace(line[5:])}
			sub.Entries = append(sub.Entries, entry)
		case strings.HasPrefix(line, "### "):
			sub = &Block{Title: strings.TrimSpace(line[4:])}
			entry = nil
			cur.Subsections = append(cur.Subsections, sub)
		case sub != nil:
			target := sub
			if entry != nil {
				target = entry
			}
			target.Lines = append(target.Lines, classify(line, known))
		case line == "":
		case IsComment(line):
			key, value, ok := ParseComment(line)
			if !ok {
				continue
			}
			if key == "id" {
				cur.ID = value
				continue
			}
			cur.Meta[key] = value
		default:
			if key, value, ok := SplitField(line); ok && known[key] {
				cur.Fields[key] = value
				continue
			}
			cur.Text = append(cur.Text, UnescapeText(line))
		}
	}
	flush()
	return out
}

func classify(line string, known map[string]bool) Line {
	switch {
	case line == "":
		return Line{Kind: LineBlank}
	case line == "-" || strings.HasPrefix(line, "- "):
		return Line{Kind: LineItem, Value: strings.TrimSpace(strings.TrimPrefix(line, "-"))}
	case IsComment(line):
		key, value, _ := ParseComment(line)
		return Line{Kind: LineComment, Key: key, Value: value}
	}
	if key, value, ok := SplitField(line); ok && known[key] {
		return Line{Kind: LineField, Key: key, Value: value}
	}
	return Line{Kind: LineText, Value: UnescapeText(line)}
}

// Field returns a record-level scalar.
func (r Record) Field(key string) string { return r.Fields[key] }

// Notes joins the record's free text with newlines.
func (r Record) Notes() string { return strings.Join(r.Text, "\n") }

// Sub returns the first subsection whose title matches one of names
// case-insensitively, or nil.
func (r Record) Sub(names ...string) *Block {
	for _, b := range r.Subsections {
		for _, n := range names {
			if strings.EqualFold(b.Title, n) {
				return b
			}
		}
	}
	return nil
}

// Items returns the list items of the block. A nil block has none.
func (b *Block) Items() []string {
	if b == nil {
		return nil
	}
	var out []string
	for _, l := range b.Lines {
		if l.Kind == LineItem && l.Value != "" {
			out = append(out, l.Value)
		}
	}
	return out
}

// Field returns the value of the first field line with the given key.
func (b *Block) Field(key string) string {
	if b == nil {
		return ""
	}
	for _, l := range b.Lines {
		if l.Kind == LineField && l.Key == key {
			return l.Value
		}
	}
	return ""
}

// HasFields reports whether any field line is present.
func (b *Block) HasFields() bool {
	if b == nil {
		return false
	}
	for _, l := range b.Lines {
		if l.Kind == LineField {
			return true
		}
	}
	return false
}

// Meta returns the value of the first key/value comment with the given key.
func (b *Block) Meta(key string) string {
	if b == nil {
		return ""
	}
	for _, l := range b.Lines {
		if l.Kind == LineComment && l.Key == key {
			return l.Value
		}
	}
	return ""
}

// Text joins the non-blank text lines of the block with newlines. Items and
// fields are not included.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var parts []string
	for _, l := range b.Lines {
		if l.Kind == LineText {
			parts = append(parts, l.Value)
		}
	}
	return strings.Join(parts, "\n")
}

// Paragraphs returns list items and paragraphs in document order. Consecutive
// text lines are joined with a space; a paragraph ends at a blank line, an
// item or the end of the block.
func (b *Block) Paragraphs() []string {
	if b == nil {
		return nil
	}
	var (
		out  []string
		para []string
	)
	flush := func() {
		if len(para) > 0 {
			out = append(out, strings.Join(para, " "))
			para = nil
		}
	}
	for _, l := range b.Lines {
		switch l.Kind {
		case LineText:
			para = append(para, l.Value)
		case LineField:
			para = append(para, l.Key+": "+l.Value)
		case LineItem:
			flush()
			if l.Value != "" {
				out = append(out, l.Value)
			}
		default:
			flush()
		}
	}
	flush()
	return out
}

// Group is a list item together with the comments and text lines that follow
// it up to the next item.
type Group struct {
	Item string
	Meta map[string]string
	Text []string
}

// Groups splits the block at list items. Lines before the first item are
// ignored.
func (b *Block) Groups() []Group {
	if b == nil {
		return nil
	}
	var out []Group
	for _, l := range b.Lines {
		switch l.Kind {
		case LineItem:
			out = append(out, Group{Item: l.Value, Meta: map[string]string{}})
		case LineComment:
			if len(out) > 0 && l.Key != "" {
				out[len(out)-1].Meta[l.Key] = l.Value
			}
		case LineText:
			if len(out) > 0 {
				out[len(out)-1].Text = append(out[len(out)-1].Text, l.Value)
			}
		case LineField:
			if len(out) > 0 {
				out[len(out)-1].Text = append(out[len(out)-1].Text, l.Key+": "+l.Value)
			}
		}
	}
	return out
}

// Body reconstructs the non-blank lines of the block in document order. It is
// used for free-form subsections such as Notes, where a line that happens to
// look like an item or a field is still prose.
func (b *Block) Body() string {
	if b == nil {
		return ""
	}
	var parts []string
	for _, l := range b.Lines {
		switch l.Kind {
		case LineItem:
			parts = append(parts, "- "+l.Value)
		case LineField:
			parts = append(parts, l.Key+": "+l.Value)
		case LineComment:
			if l.Key != "" {
				parts = append(parts, Comment(l.Key, l.Value))
			}
		case LineText:
			parts = append(parts, l.Value)
		}
	}
	return strings.Join(parts, "\n")
}

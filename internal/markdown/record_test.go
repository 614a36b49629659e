package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordDoc = `<!-- Retrospectives -->
# Retrospectives

## Sprint 12
<!-- id: r12 -->
Date: 2025-02-01
Status: closed
Free text line
Unknown: goes to text

### Continue
- Pairing
- Demos

### Stop
- Late merges

## 
Date: 2025-02-02

# Retrospectives

## Sprint 13 {mood: good}
<!-- links: a,b -->

<!-- Board -->
# Board
## Todo
`

func TestScanRecords(t *testing.T) {
	recs := ScanRecords(SplitLines(recordDoc), Schema{
		Section: "Retrospectives",
		Fields:  []string{"Date", "Status"},
		Config:  true,
	})

	require.Len(t, recs, 2, "untitled record is dropped, continuation heading keeps scanning")

	r := recs[0]
	assert.Equal(t, "Sprint 12", r.Title)
	assert.Equal(t, "r12", r.ID)
	assert.Equal(t, "2025-02-01", r.Field("Date"))
	assert.Equal(t, "closed", r.Field("Status"))
	assert.Equal(t, "Free text line\nUnknown: goes to text", r.Notes())
	assert.Equal(t, []string{"Pairing", "Demos"}, r.Sub("continue").Items())
	assert.Equal(t, []string{"Late merges"}, r.Sub("Stop").Items())
	assert.Nil(t, r.Sub("Start"))
	assert.Nil(t, r.Sub("Start").Items())

	r = recs[1]
	assert.Equal(t, "Sprint 13", r.Title)
	assert.Equal(t, "good", r.Config["mood"])
	assert.Equal(t, "a,b", r.Meta["links"])
}

func TestScanRecords_BracesStayInTitleWithoutConfig(t *testing.T) {
	recs := ScanRecords(SplitLines("# Ideas\n\n## Support {placeholders}\n"), Schema{Section: "Ideas"})
	require.Len(t, recs, 1)
	assert.Equal(t, "Support {placeholders}", recs[0].Title)
	assert.Empty(t, recs[0].Config)
}

func TestScanRecords_AbsentSection(t *testing.T) {
	assert.Nil(t, ScanRecords(SplitLines("# Other\n"), Schema{Section: "Ideas"}))
}

func TestScanRecords_CustomRequired(t *testing.T) {
	doc := "# Payments\n\n## Payment p1\nInvoice: i1\n\n## Payment p2\n"
	recs := ScanRecords(SplitLines(doc), Schema{
		Section:  "Payments",
		Fields:   []string{"Invoice"},
		Required: func(r Record) bool { return r.Field("Invoice") != "" },
	})
	require.Len(t, recs, 1)
	assert.Equal(t, "Payment p1", recs[0].Title)
}

func TestScanRecords_EntriesAndGroups(t *testing.T) {
	doc := `# Capacity Planning

## Q1
### Team Members
#### Ana
<!-- member-id: m1 -->
Role: Dev
Hours Per Day: 6
#### Bo
<!-- member-id: m2 -->

### Goals
- Ship v1
<!-- level-id: g1, parent: v1 -->
Ship the first version
to customers
- Grow
`
	recs := ScanRecords(SplitLines(doc), Schema{
		Section: "Capacity Planning",
		Fields:  []string{"Role", "Hours Per Day"},
	})
	require.Len(t, recs, 1)

	team := recs[0].Sub("Team Members")
	require.NotNil(t, team)
	require.Len(t, team.Entries, 2)
	assert.Equal(t, "Ana", team.Entries[0].Title)
	assert.Equal(t, "m1", team.Entries[0].Meta("member-id"))
	assert.Equal(t, "6", team.Entries[0].Field("Hours Per Day"))
	assert.Equal(t, "m2", team.Entries[1].Meta("member-id"))

	groups := recs[0].Sub("Goals").Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Ship v1", groups[0].Item)
	assert.Equal(t, "g1, parent: v1", groups[0].Meta["level-id"])
	assert.Equal(t, []string{"Ship the first version", "to customers"}, groups[0].Text)
	assert.Equal(t, "Grow", groups[1].Item)
}

func TestBlockParagraphs(t *testing.T) {
	doc := "# Brief\n\n## B\n### Summary\nFirst line\ncontinues here\n\n- An item\nSecond para\n"
	recs := ScanRecords(SplitLines(doc), Schema{Section: "Brief"})
	require.Len(t, recs, 1)
	assert.Equal(t,
		[]string{"First line continues here", "An item", "Second para"},
		recs[0].Sub("Summary").Paragraphs())
}

func TestBlockBody(t *testing.T) {
	doc := "# Deals\n\n## D\n### Notes\nCall back Monday\n- bring contract\n"
	recs := ScanRecords(SplitLines(doc), Schema{Section: "Deals"})
	require.Len(t, recs, 1)
	assert.Equal(t, "Call back Monday\n- bring contract", recs[0].Sub("Notes").Body())
}

func TestWriter(t *testing.T) {
	w := NewSectionWriter("Ideas")
	w.Line("## X").Meta("id", "i1").Meta("links", "").Field("Status", "new").Field("Category", "")
	w.Items([]string{"a"}).Text("t1", "", "t2").Blank()
	assert.Equal(t, []string{
		"<!-- Ideas -->", "# Ideas", "",
		"## X", "<!-- id: i1 -->", "Status: new", "- a", "t1", "t2", "",
	}, w.Lines())
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"## Motivation", `\## Motivation`},
		{"  # indented", `\# indented`},
		{`\# already escaped`, `\\# already escaped`},
		{`\not a heading`, `\not a heading`},
		{"C# is fine", "C# is fine"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EscapeText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.TrimSpace(tt.in), UnescapeText(strings.TrimSpace(got)))
		})
	}
}

func TestScanRecords_HeadingLikeTextStaysText(t *testing.T) {
	w := NewSectionWriter("Ideas")
	w.Line("## Dark mode").Text("## Motivation", "users asked", `\# literal`)
	w.Blank().Line("### Notes").Text("### Scope", "#### Later")

	recs := ScanRecords(w.Lines(), Schema{Section: "Ideas"})
	require.Len(t, recs, 1)
	assert.Equal(t, "## Motivation\nusers asked\n\\# literal", recs[0].Notes())
	require.Len(t, recs[0].Subsections, 1)
	assert.Equal(t, "### Scope\n#### Later", recs[0].Sub("Notes").Body())
}

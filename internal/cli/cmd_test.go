package cli

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/mdplan/internal/document"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

const boardDoc = `<!-- Board -->
# Board

## Todo

- [ ] (1) Design landing page {priority: 1; effort: 8; milestone: Beta; assignee: Ana}
  - [ ] (2) Pick palette {effort: 2}
- [ ] (3) Write docs {priority: 2; effort: 5}

## Done

- [x] (4) Kickoff {milestone: Beta}
`

// testApp wires every service to a temporary copy of content. The clock is
// fixed at Monday 2025-03-10.
func testApp(t *testing.T, content string) (*App, *document.Store) {
	t.Helper()
	store := testutil.NewTestDocument(t, content)
	app := &App{
		Now:           func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
		IsInteractive: func() bool { return false },
		DocumentPath:  store.Path(),
	}
	app.UseRepos(repository.NewRepos(store, testutil.SeqIDs("id"), nil), testutil.SeqIDs("n"))
	t.Cleanup(func() { _ = app.Close() })
	return app, store
}

// executeCmd runs the root command with args and returns what it printed.
// HOME points at an empty directory so no user config is picked up.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// mustExecute is executeCmd for steps that must succeed.
func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "mdplan %v: %s", args, out)
	return out
}

var bracketID = regexp.MustCompile(`\[([^\]]+)\]`)

// createdID pulls the "[id]" suffix out of a "Created ..." line.
func createdID(t *testing.T, out string) string {
	t.Helper()
	m := bracketID.FindStringSubmatch(out)
	require.NotNil(t, m, "no id in %q", out)
	return m[1]
}

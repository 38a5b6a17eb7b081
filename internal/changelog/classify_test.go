package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message  string
		wantCat  Category
		wantDesc string
	}{
		"empty":                     {message: "", wantCat: Changed, wantDesc: ""},
		"whitespace only":           {message: "   \t\n", wantCat: Changed, wantDesc: ""},
		"feat":                      {message: "feat: add X", wantCat: Added, wantDesc: "add X"},
		"fix with scope":            {message: "fix(scope): resolve Y", wantCat: Fixed, wantDesc: "resolve Y"},
		"breaking feat":             {message: "feat!: break API", wantCat: Changed, wantDesc: "**BREAKING:** break API"},
		"breaking fix with scope":   {message: "fix(api)!: drop v1", wantCat: Changed, wantDesc: "**BREAKING:** drop v1"},
		"breaking security":         {message: "security!: rotate keys", wantCat: Changed, wantDesc: "**BREAKING:** rotate keys"},
		"random text":               {message: "random text", wantCat: Changed, wantDesc: "random text"},
		"non conventional trimmed":  {message: "  Update README  ", wantCat: Changed, wantDesc: "Update README"},
		"uppercase type":            {message: "FEAT: shout", wantCat: Added, wantDesc: "shout"},
		"mixed case type":           {message: "Fix: tidy", wantCat: Fixed, wantDesc: "tidy"},
		"unknown type":              {message: "wip: half done", wantCat: Changed, wantDesc: "half done"},
		"docs":                      {message: "docs: explain merge", wantCat: Documentation, wantDesc: "explain merge"},
		"doc":                       {message: "doc: typo", wantCat: Documentation, wantDesc: "typo"},
		"security":                  {message: "security: patch CVE-2025-1", wantCat: Security, wantDesc: "patch CVE-2025-1"},
		"revert is fixed":           {message: "revert: undo thing", wantCat: Fixed, wantDesc: "undo thing"},
		"missing space after colon": {message: "feat:no space", wantCat: Changed, wantDesc: "feat:no space"},
		"empty scope":               {message: "feat(): nothing", wantCat: Changed, wantDesc: "feat(): nothing"},
		"empty description":         {message: "feat: ", wantCat: Changed, wantDesc: "feat:"},
		"description with colon":    {message: "chore(deps): bump x: y", wantCat: Changed, wantDesc: "bump x: y"},
		"accented type":             {message: "ajouté: x", wantCat: Changed, wantDesc: "x"},
		"cjk type":                  {message: "修正: バグを直す", wantCat: Changed, wantDesc: "バグを直す"},
		"underscore and digits":     {message: "fix_2: typo", wantCat: Changed, wantDesc: "typo"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cat, desc := Classify(tt.message)
			assert.Equal(t, tt.wantCat, cat)
			assert.Equal(t, tt.wantDesc, desc)
			assert.True(t, cat.Valid())
		})
	}
}

func TestCategoryForType(t *testing.T) {
	t.Parallel()

	tests := map[Category][]string{
		Added:         {"feat", "feature", "add"},
		Fixed:         {"fix", "bugfix", "hotfix", "revert"},
		Documentation: {"docs", "doc"},
		Changed:       {"style", "refactor", "perf", "test", "chore", "ci", "build", "anything"},
		Security:      {"security", "SECURITY"},
	}

	for want, types := range tests {
		for _, typ := range types {
			assert.Equal(t, want, CategoryForType(typ), "type %q", typ)
		}
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message string
		want    Header
		wantOK  bool
	}{
		"full header": {
			message: "feat(parser)!: new grammar",
			want:    Header{Type: "feat", Scope: "parser", Breaking: true, Description: "new grammar"},
			wantOK:  true,
		},
		"no scope": {
			message: "Chore: tidy up",
			want:    Header{Type: "chore", Description: "tidy up"},
			wantOK:  true,
		},
		"not conventional": {
			message: "Merge branch 'main'",
			wantOK:  false,
		},
		"bang without colon": {
			message: "feat! nope",
			wantOK:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseHeader(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"empty":                  {input: "", want: ""},
		"pr number and hash":     {input: "feat: add login (#42) (a1b2c3d)", want: "feat: add login"},
		"hash only":              {input: "fix: crash (deadbeef)", want: "fix: crash"},
		"no suffix":              {input: "docs: readme", want: "docs: readme"},
		"pr number only stays":   {input: "feat: thing (#42)", want: "feat: thing (#42)"},
		"uppercase hex stays":    {input: "fix: x (ABCDEF)", want: "fix: x (ABCDEF)"},
		"surrounding whitespace": {input: "  chore: y (abc123)  ", want: "chore: y (abc123)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanMessage(tt.input))
		})
	}
}

func TestCategory_StringAndTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"added", "changed", "fixed", "documentation", "security"}, func() []string {
		var names []string
		for _, c := range Categories() {
			names = append(names, c.String())
		}
		return names
	}())
	assert.Equal(t, "Documentation", Documentation.Title())
	assert.Equal(t, "unknown", Category(42).String())
	assert.Empty(t, Category(-1).Title())

	cat, ok := ParseCategory(" Security ")
	assert.True(t, ok)
	assert.Equal(t, Security, cat)

	_, ok = ParseCategory("deprecated")
	assert.False(t, ok)
}

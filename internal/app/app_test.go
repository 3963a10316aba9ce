package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/mbtitools/internal/devserver"
	"github.com/specialistvlad/mbtitools/internal/extract"
	"github.com/specialistvlad/mbtitools/internal/hcl"
	"github.com/specialistvlad/mbtitools/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app  *App
	root string
	out  *testutil.SafeBuffer
	logs *testutil.SafeBuffer
}

func newHarness(t *testing.T, files map[string]string, opts ...Option) *harness {
	t.Helper()
	root := testutil.WriteTree(t, files)
	cfg, err := NewConfig(Config{
		Root:       root,
		ConfigPath: filepath.Join(root, "mbtitools.hcl"),
		LogLevel:   "debug",
	})
	require.NoError(t, err)

	h := &harness{root: root, out: &testutil.SafeBuffer{}, logs: &testutil.SafeBuffer{}}
	h.app, err = NewApp(context.Background(), h.out, h.logs, cfg, hcl.NewLoader(), opts...)
	require.NoError(t, err)
	return h
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, err = NewConfig(Config{LogFormat: "JSON", LogLevel: "Warn"})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = NewConfig(Config{LogFormat: "xml"})
	assert.ErrorContains(t, err, "invalid log-format")

	_, err = NewConfig(Config{LogLevel: "trace"})
	assert.ErrorContains(t, err, "invalid log-level")
}

func TestNewApp_ConfigError(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"mbtitools.hcl": `extract "x" {`})
	cfg, err := NewConfig(Config{Root: root, ConfigPath: filepath.Join(root, "mbtitools.hcl")})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg, hcl.NewLoader())
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestExtract(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t, testutil.FixtureTree())

	// --- Act ---
	err := h.app.Extract(context.Background(), ExtractOptions{})

	// --- Assert ---
	require.NoError(t, err)
	for _, name := range testutil.FixtureTypes {
		content := testutil.ReadFile(t, h.root, "src/constants/mbti/types/"+name+".js")
		assert.True(t, strings.HasPrefix(content, "export const "+name+" = {\n  name: '"), name)
		assert.True(t, strings.HasSuffix(content, "\n}\n"), name)
	}
	assert.Equal(t, "export const ESFJ = {\n  name: '执政官',\n    traits: [],\n}\n",
		testutil.ReadFile(t, h.root, "src/constants/mbti/types/ESFJ.js"))
	assert.Contains(t, testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTJ.js"), "quote: '计划 { 先于 } 行动'")
	assert.Contains(t, testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTP.js"), "// 注释里的 } 不影响解析")

	assert.Contains(t, h.out.String(), "[1/4] INTJ -> src/constants/mbti/types/INTJ.js")
	assert.Contains(t, h.out.String(), "[+] 4 files written.")
}

func TestExtract_Idempotent(t *testing.T) {
	h := newHarness(t, testutil.FixtureTree())
	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{}))
	first := testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTP.js")

	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{}))
	assert.Equal(t, first, testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTP.js"))
}

func TestExtract_DryRun(t *testing.T) {
	h := newHarness(t, testutil.FixtureTree())

	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{Job: "types", DryRun: true}))
	assert.False(t, testutil.Exists(h.root, "src/constants/mbti/types"))
	assert.Contains(t, h.out.String(), "INTJ: would write src/constants/mbti/types/INTJ.js")
}

func TestExtract_Errors(t *testing.T) {
	t.Run("unknown job", func(t *testing.T) {
		h := newHarness(t, testutil.FixtureTree())
		err := h.app.Extract(context.Background(), ExtractOptions{Job: "colors"})
		assert.ErrorContains(t, err, `no extract job named "colors"`)
	})

	t.Run("missing block aborts", func(t *testing.T) {
		files := testutil.FixtureTree()
		files["src/constants/mbti.js"] = strings.Replace(testutil.MBTISource, "ENFP:", "ENFX:", 1)
		h := newHarness(t, files)

		err := h.app.Extract(context.Background(), ExtractOptions{})
		var notFound *extract.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "ENFP", notFound.Block)
		assert.Contains(t, h.logs.String(), "key=ENFX")
		assert.False(t, testutil.Exists(h.root, "src/constants/mbti/types/ENFP.js"))
	})

	t.Run("unbalanced source", func(t *testing.T) {
		files := testutil.FixtureTree()
		files["src/constants/mbti.js"] = "export const TYPE_DESCRIPTIONS = {\n  INTJ: { name: 'a' },\n"
		h := newHarness(t, files)

		err := h.app.Extract(context.Background(), ExtractOptions{})
		var unbalanced *extract.UnbalancedBracesError
		assert.ErrorAs(t, err, &unbalanced)
	})

	t.Run("missing source", func(t *testing.T) {
		files := testutil.FixtureTree()
		delete(files, "src/constants/mbti.js")
		h := newHarness(t, files)

		err := h.app.Extract(context.Background(), ExtractOptions{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestExtract_WarnsAboutDuplicateKeys(t *testing.T) {
	files := testutil.FixtureTree()
	files["src/constants/mbti.js"] = strings.Replace(testutil.MBTISource, "  ESFJ: {", "  INTJ: { name: 'dup' },\n  ESFJ: {", 1)
	h := newHarness(t, files)

	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{}))
	assert.Contains(t, h.logs.String(), "Key appears more than once")
	assert.NotContains(t, testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTJ.js"), "dup")
}

func TestExtract_NestedKeyDoesNotShadowBlock(t *testing.T) {
	// --- Arrange ---
	files := testutil.FixtureTree()
	files["src/constants/mbti.js"] = strings.Replace(testutil.MBTISource,
		"    name: '建筑师',\n", "    name: '建筑师',\n    pair: { ENFP: { note: 'nested' } },\n", 1)
	h := newHarness(t, files)

	// --- Act ---
	err := h.app.Extract(context.Background(), ExtractOptions{})

	// --- Assert ---
	require.NoError(t, err)
	enfp := testutil.ReadFile(t, h.root, "src/constants/mbti/types/ENFP.js")
	assert.Contains(t, enfp, "竞选者")
	assert.NotContains(t, enfp, "nested")
	assert.Contains(t, testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTJ.js"), "pair: { ENFP: { note: 'nested' } }")

	require.NoError(t, h.app.Verify(context.Background(), "types"))
	assert.Contains(t, h.out.String(), "Total: 4, Failed: 0")
}

func TestVerify(t *testing.T) {
	h := newHarness(t, testutil.FixtureTree())
	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{}))

	require.NoError(t, h.app.Verify(context.Background(), ""))
	assert.Contains(t, h.out.String(), "Total: 4, Failed: 0")

	target := filepath.Join(h.root, "src/constants/mbti/types/ENFP.js")
	content := testutil.ReadFile(t, h.root, "src/constants/mbti/types/ENFP.js")
	require.NoError(t, os.WriteFile(target, []byte(strings.Replace(content, "竞选者", "调停者", 1)), 0o644))
	require.NoError(t, os.Remove(filepath.Join(h.root, "src/constants/mbti/types/ESFJ.js")))

	err := h.app.Verify(context.Background(), "types")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFindings))
	assert.Contains(t, err.Error(), "2 of 4 blocks failed verification")
	assert.Contains(t, h.out.String(), "ENFP: MISMATCH")
	assert.Contains(t, h.out.String(), "ESFJ: FAILED")
}

func TestCSSAudit(t *testing.T) {
	h := newHarness(t, testutil.FixtureTree())

	err := h.app.CSSAudit(context.Background())
	require.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, err.Error(), "2 unused stylesheet(s)")

	out := h.out.String()
	assert.Contains(t, out, "  + ./ResultPage.css")
	assert.Contains(t, out, "  - src/components/OldStyles.css")
	assert.Contains(t, out, "  - src/components/ResultPage/Unused.css")
	assert.NotContains(t, out, "  - src/components/Layout.css")
	assert.Contains(t, out, "Unused top level: 1")
	assert.Contains(t, out, "Unused nested: 1")
}

func TestCSSAudit_Clean(t *testing.T) {
	files := testutil.FixtureTree()
	delete(files, "src/components/OldStyles.css")
	delete(files, "src/components/ResultPage/Unused.css")
	h := newHarness(t, files)

	assert.NoError(t, h.app.CSSAudit(context.Background()))
}

func TestRenameClasses(t *testing.T) {
	files := testutil.FixtureTree()
	files["mbtitools.hcl"] = strings.Replace(testutil.FixtureConfig,
		`"src/components/ResultPage/TypeDetailTabs.css",`,
		`"src/components/ResultPage/TypeDetailTabs.css",
    "src/components/ResultPage/Gone.jsx",`, 1)
	h := newHarness(t, files)

	t.Run("dry run", func(t *testing.T) {
		require.NoError(t, h.app.RenameClasses(context.Background(), RenameOptions{DryRun: true}))
		assert.Contains(t, h.out.String(), "[~] Would update")
		assert.Contains(t, testutil.ReadFile(t, h.root, "src/components/ResultPage/TypeDetailTabs.css"), ".tab-buttons {")
	})

	t.Run("apply", func(t *testing.T) {
		require.NoError(t, h.app.RenameClasses(context.Background(), RenameOptions{Job: "result-page"}))

		jsx := testutil.ReadFile(t, h.root, "src/components/ResultPage/TypeDetailTabs.jsx")
		assert.Contains(t, jsx, `className="result-tab-buttons"`)
		assert.Contains(t, jsx, "className={`result-tab-button ${active ? 'active' : ''}`}")
		assert.Contains(t, jsx, `className="result-tab-content-list"`)
		assert.Contains(t, jsx, `className='result-tab-content'`)
		assert.NotContains(t, jsx, "result-result-")

		css := testutil.ReadFile(t, h.root, "src/components/ResultPage/TypeDetailTabs.css")
		assert.Equal(t, ".result-tab-buttons { display: flex }\n.result-tab-button.active { color: #333 }\n.result-tab-content-list > .result-tab-content { padding: 0 }\n", css)

		assert.Contains(t, h.out.String(), "tab-content-list -> result-tab-content-list (1)")
		assert.Contains(t, h.out.String(), "[-] Missing: src/components/ResultPage/Gone.jsx")
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		require.NoError(t, h.app.RenameClasses(context.Background(), RenameOptions{}))
		assert.Contains(t, h.out.String(), "[+] Done: 0 file(s) changed.")
	})
}

func TestIndentCheckAndFix(t *testing.T) {
	h := newHarness(t, testutil.FixtureTree())
	require.NoError(t, h.app.Extract(context.Background(), ExtractOptions{}))
	require.NoError(t, h.app.IndentCheck(context.Background()))

	bad := filepath.Join(h.root, "src/constants/mbti/types/INTP.js")
	require.NoError(t, os.WriteFile(bad, []byte("export const INTP = {\nname: '逻辑学家',\n}\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(h.root, "src/constants/mbti/types/ESFJ.js")))

	err := h.app.IndentCheck(context.Background())
	require.ErrorIs(t, err, ErrFindings)
	assert.Contains(t, h.out.String(), "INTP: NEEDS FIX (no indent)")
	assert.Contains(t, h.out.String(), "ESFJ: MISSING")
	assert.Contains(t, h.out.String(), "Files to fix: INTP")

	require.NoError(t, h.app.IndentFix(context.Background()))
	assert.Contains(t, h.out.String(), "[+] Fixed: src/constants/mbti/types/INTP.js")
	assert.Contains(t, h.out.String(), "[+] Done: fixed 1/4 file(s).")
	assert.Equal(t, "export const INTP = {\n  name: '逻辑学家',\n}\n", testutil.ReadFile(t, h.root, "src/constants/mbti/types/INTP.js"))
}

type stubInspector struct{ terminated []int32 }

func (s *stubInspector) ListeningPorts(context.Context) ([]devserver.Listener, error) {
	return []devserver.Listener{{Port: 5173, PID: 42}, {Port: 5190, PID: 43}}, nil
}

func (s *stubInspector) Terminate(_ context.Context, pid int32) error {
	s.terminated = append(s.terminated, pid)
	return nil
}

type stubRunner struct{ argv []string }

func (s *stubRunner) Run(_ context.Context, argv []string) error {
	s.argv = argv
	return nil
}

func TestDev(t *testing.T) {
	insp := &stubInspector{}
	run := &stubRunner{}
	h := newHarness(t, testutil.FixtureTree(),
		WithPortInspector(insp),
		WithRunner(run),
		WithInput(strings.NewReader("y\n")),
	)

	require.NoError(t, h.app.Dev(context.Background(), devserver.ChoiceAsk))
	assert.Equal(t, []int32{42}, insp.terminated, "port 5190 is outside the configured range")
	assert.Equal(t, []string{"npm", "run", "dev"}, run.argv)
	assert.Contains(t, h.out.String(), "Do you want to close them? (y/n/q)")
}

package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/silica-framework/create-silica/pkg/exec"
	"github.com/silica-framework/create-silica/pkg/input"
	"github.com/silica-framework/create-silica/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplateURL = "https://example.com/Silica-Framework.git"

// helperEnv configures how the fake tools behave
type helperEnv struct {
	log          string // file every invocation is appended to
	yarnMissing  bool
	gitMissing   bool
	cloneFails   bool
	installFails bool
	noLicense    bool
	badManifest  bool
}

// mockCommands returns a CommandFunc that re-runs the test binary in place
// of git, npm and yarn
func mockCommands(h helperEnv) exec.CommandFunc {
	return func(name string, args ...string) *osexec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := osexec.Command(os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_LOG=" + h.log,
			fmt.Sprintf("HELPER_YARN_MISSING=%t", h.yarnMissing),
			fmt.Sprintf("HELPER_GIT_MISSING=%t", h.gitMissing),
			fmt.Sprintf("HELPER_CLONE_FAILS=%t", h.cloneFails),
			fmt.Sprintf("HELPER_INSTALL_FAILS=%t", h.installFails),
			fmt.Sprintf("HELPER_NO_LICENSE=%t", h.noLicense),
			fmt.Sprintf("HELPER_BAD_MANIFEST=%t", h.badManifest),
		}
		return cmd
	}
}

// TestHelperProcess stands in for git, npm and yarn
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	if logPath := os.Getenv("HELPER_LOG"); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			wd, _ := os.Getwd()
			fmt.Fprintf(f, "%s\t%s\n", strings.Join(args, " "), wd)
			f.Close()
		}
	}

	flag := func(name string) bool { return os.Getenv(name) == "true" }

	switch {
	case len(args) == 2 && args[0] == "git" && args[1] == "--version":
		if flag("HELPER_GIT_MISSING") {
			os.Exit(127)
		}
		fmt.Println("git version 2.43.0")
		os.Exit(0)

	case len(args) == 2 && args[0] == "yarn" && args[1] == "--version":
		if flag("HELPER_YARN_MISSING") {
			os.Exit(127)
		}
		fmt.Println("1.22.19")
		os.Exit(0)

	case len(args) == 5 && args[0] == "git" && args[1] == "clone" && args[2] == "--":
		if flag("HELPER_CLONE_FAILS") {
			fmt.Fprintln(os.Stderr, "fatal: repository not found")
			os.Exit(128)
		}
		fmt.Println("Cloning into '" + args[4] + "'...")
		if err := writeTemplate(args[4], !flag("HELPER_NO_LICENSE"), flag("HELPER_BAD_MANIFEST")); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)

	case len(args) == 2 && (args[0] == "npm" || args[0] == "yarn") && args[1] == "install":
		if flag("HELPER_INSTALL_FAILS") {
			fmt.Fprintln(os.Stderr, "ERR! network timeout")
			os.Exit(1)
		}
		if err := os.MkdirAll("node_modules", 0o755); err != nil {
			os.Exit(1)
		}
		if err := os.WriteFile(filepath.Join("node_modules", ".installed-by"), []byte(args[0]), 0o644); err != nil {
			os.Exit(1)
		}
		fmt.Println("added 42 packages")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "unexpected command: %v\n", args)
	os.Exit(2)
}

// writeTemplate lays out a copy of the template repository in dir
func writeTemplate(dir string, license, badManifest bool) error {
	files := map[string]string{
		".git/HEAD":     "ref: refs/heads/main\n",
		".git/config":   "[core]\n",
		"yarn.lock":     "# yarn lockfile v1\n",
		".env.example":  "TOKEN=\n",
		"src/index.ts":  "export {}\n",
		"prisma/schema": "// schema\n",
		ManifestFile:    templateManifest,
	}
	if license {
		files[licenseFile] = "MIT License\n"
	}
	if badManifest {
		files[ManifestFile] = "{not json"
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// fakePrompter answers prompts with fixed values
type fakePrompter struct {
	name    string
	manager string
	err     error

	onSelect func()

	textCalls   int
	selectCalls int
	choices     []input.Choice
	validated   error
}

func (f *fakePrompter) Text(_ context.Context, message, initial string, validate func(string) error) (string, error) {
	f.textCalls++
	if f.err != nil {
		return "", f.err
	}
	if validate != nil {
		f.validated = validate(f.name)
	}
	return f.name, nil
}

func (f *fakePrompter) Select(_ context.Context, message string, choices []input.Choice) (string, error) {
	f.selectCalls++
	f.choices = choices
	if f.onSelect != nil {
		f.onSelect()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.manager, nil
}

type fixture struct {
	dir      string
	log      string
	prompter *fakePrompter
	out      *bytes.Buffer
	s        *Scaffolder
}

func newFixture(t *testing.T, h helperEnv, p *fakePrompter) *fixture {
	t.Helper()

	dir := t.TempDir()
	h.log = filepath.Join(t.TempDir(), "commands.log")

	var out bytes.Buffer
	output.SetOutput(&out)
	output.SetColor(false)
	t.Cleanup(func() { output.SetOutput(nil) })

	executor := exec.NewExecutor(&exec.Options{
		Stdout:      &bytes.Buffer{},
		Stderr:      &bytes.Buffer{},
		CommandFunc: mockCommands(h),
	})

	return &fixture{
		dir:      dir,
		log:      h.log,
		prompter: p,
		out:      &out,
		s: NewScaffolder(Options{
			Executor:    executor,
			Prompter:    p,
			TemplateURL: testTemplateURL,
			Dir:         dir,
			InitialName: "silica-framework-bot",
			Manifest:    testDefaults,
		}),
	}
}

func (f *fixture) commands(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.log)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)

	var cmds []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		cmds = append(cmds, strings.SplitN(line, "\t", 2)[0])
	}
	return cmds
}

func TestScaffolder_Run_NPM(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my-bot", manager: "npm"})

	session, projectDir, err := f.s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my-bot", session.ProjectName)
	assert.Equal(t, NPM, session.Manager)
	assert.Equal(t, filepath.Join(f.dir, "my-bot"), projectDir)

	// Manifest rewritten with the project name
	fields := readKeys(t, filepath.Join(projectDir, ManifestFile))
	assert.JSONEq(t, `"my-bot"`, string(fields["name"]))
	assert.Len(t, fields, len(manifestKeys))

	// Template-only files removed
	assert.NoFileExists(t, filepath.Join(projectDir, licenseFile))
	assert.NoDirExists(t, filepath.Join(projectDir, gitDir))
	assert.NoFileExists(t, filepath.Join(projectDir, "yarn.lock"))

	// The rest of the tree is untouched
	assert.FileExists(t, filepath.Join(projectDir, ".env.example"))
	assert.FileExists(t, filepath.Join(projectDir, "src", "index.ts"))

	// Dependencies installed with npm inside the project
	installedBy, err := os.ReadFile(filepath.Join(projectDir, "node_modules", ".installed-by"))
	require.NoError(t, err)
	assert.Equal(t, "npm", string(installedBy))

	assert.Equal(t, []string{
		"git --version",
		"yarn --version",
		"git clone -- " + testTemplateURL + " my-bot",
		"npm install",
	}, f.commands(t))

	out := f.out.String()
	assert.Contains(t, out, "Cloning the git repository")
	assert.Contains(t, out, "Cloned the repository")
	assert.Contains(t, out, "Installing dependencies")
	assert.Contains(t, out, "Installed dependencies")
	assert.NotContains(t, out, "ERROR")
}

func TestScaffolder_Run_YarnKeepsLockfile(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my-bot", manager: "yarn"})

	_, projectDir, err := f.s.Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(projectDir, "yarn.lock"))
	installedBy, err := os.ReadFile(filepath.Join(projectDir, "node_modules", ".installed-by"))
	require.NoError(t, err)
	assert.Equal(t, "yarn", string(installedBy))
}

func TestScaffolder_InstallRunsInProjectDir(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my-bot", manager: "npm"})

	_, projectDir, err := f.s.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(f.log)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		require.Len(t, parts, 2)
		wd, err := filepath.EvalSymlinks(parts[1])
		require.NoError(t, err)
		switch parts[0] {
		case "npm install":
			want, _ := filepath.EvalSymlinks(projectDir)
			assert.Equal(t, want, wd)
		case "git clone -- " + testTemplateURL + " my-bot":
			want, _ := filepath.EvalSymlinks(f.dir)
			assert.Equal(t, want, wd)
		}
	}
}

func TestScaffolder_Collect_YarnMissing(t *testing.T) {
	f := newFixture(t, helperEnv{yarnMissing: true}, &fakePrompter{name: "my-bot", manager: "npm"})

	tools := f.s.Preflight(context.Background())
	assert.True(t, tools.Git.Available)
	assert.False(t, tools.Yarn.Available)

	session, err := f.s.Collect(context.Background(), tools)
	require.NoError(t, err)
	assert.Equal(t, NPM, session.Manager)

	require.Len(t, f.prompter.choices, 2)
	assert.Equal(t, input.Choice{Name: "npm"}, f.prompter.choices[0])
	assert.Equal(t, "yarn", f.prompter.choices[1].Name)
	assert.True(t, f.prompter.choices[1].Disabled)
	assert.Equal(t, "yarn - use 'npm install --location=global yarn' to install", f.prompter.choices[1].Label)
}

func TestScaffolder_Collect_YarnAvailable(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my-bot", manager: "yarn"})

	tools := f.s.Preflight(context.Background())
	require.True(t, tools.Yarn.Available)
	require.NotNil(t, tools.Yarn.Version)
	assert.Equal(t, "1.22.19", tools.Yarn.Version.String())

	_, err := f.s.Collect(context.Background(), tools)
	require.NoError(t, err)
	assert.Equal(t, []input.Choice{{Name: "npm"}, {Name: "yarn"}}, f.prompter.choices)
}

func TestScaffolder_Collect_PassesValidator(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my bot", manager: "npm"})

	_, err := f.s.Collect(context.Background(), Tools{})
	require.Error(t, err)

	var invalid *InvalidNameError
	assert.ErrorAs(t, err, &invalid)
	assert.Error(t, f.prompter.validated, "the prompt receives the name validator")
	assert.Equal(t, 0, f.prompter.selectCalls)
}

func TestScaffolder_Run_GitMissingIsAdvisory(t *testing.T) {
	f := newFixture(t, helperEnv{gitMissing: true}, &fakePrompter{name: "my-bot", manager: "npm"})

	_, _, err := f.s.Run(context.Background())
	require.NoError(t, err, "the fake clone still works, so the pipeline completes")
	assert.Contains(t, f.out.String(), "You need git to run this command.")
	assert.Equal(t, 1, f.prompter.textCalls, "prompts still run after the git warning")
}

func TestScaffolder_Run_Cancelled(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{err: input.ErrCancelled})

	_, _, err := f.s.Run(context.Background())
	assert.ErrorIs(t, err, input.ErrCancelled)

	entries, readErr := os.ReadDir(f.dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
	assert.Equal(t, []string{"git --version", "yarn --version"}, f.commands(t))
}

func TestScaffolder_Run_InterruptedAfterPrompts(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{name: "my-bot", manager: "npm"})

	ctx, cancel := context.WithCancel(context.Background())
	f.prompter.onSelect = cancel

	_, _, err := f.s.Run(ctx)
	assert.ErrorIs(t, err, input.ErrCancelled)
	assert.NoDirExists(t, filepath.Join(f.dir, "my-bot"))
	assert.Equal(t, []string{"git --version", "yarn --version"}, f.commands(t))
}

func TestScaffolder_Scaffold_NameThatLooksLikeAFlag(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})

	_, err := f.s.Scaffold(context.Background(), Session{ProjectName: "-n", Manager: NPM})
	var invalid *InvalidNameError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, f.commands(t), "git never sees the name")

	entries, readErr := os.ReadDir(f.dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestScaffolder_Scaffold_ClonePassesNameAfterSeparator(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})

	_, err := f.s.Scaffold(context.Background(), Session{ProjectName: "my-bot", Manager: NPM})
	require.NoError(t, err)

	cmds := f.commands(t)
	require.NotEmpty(t, cmds)
	assert.Equal(t, []string{"git", "clone", "--", testTemplateURL, "my-bot"}, strings.Fields(cmds[0]))
}

func TestScaffolder_Scaffold_ExistingDirectory(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})

	existing := filepath.Join(f.dir, "my-bot")
	writeFile(t, filepath.Join(existing, "notes.txt"), "keep me")
	before, err := os.ReadDir(existing)
	require.NoError(t, err)

	_, err = f.s.Scaffold(context.Background(), Session{ProjectName: "my-bot", Manager: NPM})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProjectExists)

	after, err := os.ReadDir(existing)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
	data, err := os.ReadFile(filepath.Join(existing, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))

	assert.Empty(t, f.commands(t), "no process runs after a collision")
}

func TestScaffolder_Scaffold_ExistingFile(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})
	writeFile(t, filepath.Join(f.dir, "my-bot"), "a file, not a directory")

	_, err := f.s.Scaffold(context.Background(), Session{ProjectName: "my-bot", Manager: NPM})
	assert.ErrorIs(t, err, ErrProjectExists)
}

func TestScaffolder_Scaffold_InvalidName(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})

	_, err := f.s.Scaffold(context.Background(), Session{ProjectName: "../escape", Manager: NPM})
	var invalid *InvalidNameError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, f.commands(t))
}

func TestScaffolder_Scaffold_FatalErrors(t *testing.T) {
	tests := []struct {
		name      string
		helper    helperEnv
		wantErr   string
		wantCmds  []string
		wantDir   bool
		wantInErr string
	}{
		{
			name:      "clone fails",
			helper:    helperEnv{cloneFails: true},
			wantErr:   "failed to clone template",
			wantInErr: "repository not found",
			wantCmds:  []string{"git clone -- " + testTemplateURL + " my-bot"},
		},
		{
			name:     "license missing",
			helper:   helperEnv{noLicense: true},
			wantErr:  "failed to remove LICENSE",
			wantCmds: []string{"git clone -- " + testTemplateURL + " my-bot"},
			wantDir:  true,
		},
		{
			name:     "manifest unparsable",
			helper:   helperEnv{badManifest: true},
			wantErr:  "failed to parse",
			wantCmds: []string{"git clone -- " + testTemplateURL + " my-bot"},
			wantDir:  true,
		},
		{
			name:      "install fails",
			helper:    helperEnv{installFails: true},
			wantErr:   "failed to install dependencies",
			wantInErr: "network timeout",
			wantCmds:  []string{"git clone -- " + testTemplateURL + " my-bot", "npm install"},
			wantDir:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.helper, &fakePrompter{})

			projectDir, err := f.s.Scaffold(context.Background(), Session{ProjectName: "my-bot", Manager: NPM})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantInErr != "" {
				assert.Contains(t, err.Error(), tt.wantInErr)
			}
			assert.Equal(t, tt.wantCmds, f.commands(t))

			// No rollback: whatever was written stays on disk
			if tt.wantDir {
				assert.DirExists(t, projectDir)
			}
		})
	}
}

func TestScaffolder_Verbose_StreamsOutput(t *testing.T) {
	f := newFixture(t, helperEnv{}, &fakePrompter{})
	f.s.opts.Verbose = true
	output.SetVerbose(true)
	t.Cleanup(func() { output.SetVerbose(false) })

	_, err := f.s.Scaffold(context.Background(), Session{ProjectName: "my-bot", Manager: NPM})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "  │ Cloning into 'my-bot'...")
	assert.Contains(t, out, "  │ added 42 packages")
	assert.Contains(t, out, "$ git clone -- "+testTemplateURL+" my-bot")
	assert.Contains(t, out, "Removed LICENSE")
}

func TestCleanup_TolerantOfMissingOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, licenseFile), "MIT")

	require.NoError(t, Cleanup(dir, NPM))
	assert.NoFileExists(t, filepath.Join(dir, licenseFile))
}

func TestCleanup_YarnRemovesNPMLockfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, licenseFile), "MIT")
	writeFile(t, filepath.Join(dir, "package-lock.json"), "{}")
	writeFile(t, filepath.Join(dir, "yarn.lock"), "")

	require.NoError(t, Cleanup(dir, Yarn))
	assert.NoFileExists(t, filepath.Join(dir, "package-lock.json"))
	assert.FileExists(t, filepath.Join(dir, "yarn.lock"))
}

func TestLookupManager(t *testing.T) {
	m, err := LookupManager("yarn")
	require.NoError(t, err)
	assert.Equal(t, Yarn, m)

	_, err = LookupManager("pnpm")
	assert.Error(t, err)

	assert.Equal(t, "npm sync", NPM.SyncCommand())
	assert.Equal(t, []string{"install"}, Yarn.InstallArgs())
}

func TestTools_Supports(t *testing.T) {
	assert.True(t, Tools{}.Supports(NPM))
	assert.False(t, Tools{}.Supports(Yarn))
	assert.True(t, Tools{Yarn: Detection{Available: true}}.Supports(Yarn))
}

func TestDetection_String(t *testing.T) {
	assert.Equal(t, "not found", Detection{}.String())
	assert.Equal(t, "not found", Detection{Err: &exec.NotFoundError{Command: "git", Err: osexec.ErrNotFound}}.String())
	assert.Equal(t, "failed (git failed: exit status 1)", Detection{Err: errors.New("git failed: exit status 1")}.String())
	assert.Equal(t, "found (unknown version)", Detection{Available: true}.String())
}

func TestDetection_Missing(t *testing.T) {
	assert.True(t, Detection{Err: &exec.NotFoundError{Command: "git", Err: osexec.ErrNotFound}}.Missing())
	assert.False(t, Detection{Err: errors.New("exit status 1")}.Missing())
	assert.False(t, Detection{Available: true}.Missing())
}

func TestPreflight_MissingGit(t *testing.T) {
	var out bytes.Buffer
	output.SetOutput(&out)
	output.SetColor(false)
	t.Cleanup(func() { output.SetOutput(nil) })

	// exec.Command resolves nothing under this name, so the binary is missing
	// rather than failing
	executor := exec.NewExecutor(&exec.Options{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		CommandFunc: func(name string, args ...string) *osexec.Cmd {
			return osexec.Command("definitely-not-a-real-binary-7f3a", args...)
		},
	})

	tools := Preflight(context.Background(), executor)
	assert.True(t, tools.Git.Missing())
	assert.Contains(t, out.String(), "You need git to run this command.")
	assert.NotContains(t, out.String(), "installed but")
}

func TestPreflight_FailingGit(t *testing.T) {
	f := newFixture(t, helperEnv{gitMissing: true}, &fakePrompter{})

	tools := f.s.Preflight(context.Background())
	assert.False(t, tools.Git.Available)
	assert.False(t, tools.Git.Missing())
	assert.Contains(t, f.out.String(), "You need git to run this command.")
	assert.Contains(t, f.out.String(), "git is installed but `git --version` failed")
}

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/silica-framework/create-silica/pkg/exec"
	"github.com/silica-framework/create-silica/pkg/input"
	"github.com/silica-framework/create-silica/pkg/output"
)

// ErrProjectExists is returned when the target directory is already taken
var ErrProjectExists = errors.New("folder already exists")

const (
	licenseFile = "LICENSE"
	gitDir      = ".git"
)

// Prompter asks the user questions. *input.Prompter implements it.
type Prompter interface {
	Text(ctx context.Context, message, initial string, validate func(string) error) (string, error)
	Select(ctx context.Context, message string, choices []input.Choice) (string, error)
}

// Session is what the user asked for
type Session struct {
	ProjectName string
	Manager     PackageManager
}

// Options configures a Scaffolder
type Options struct {
	Executor    *exec.Executor
	Prompter    Prompter
	TemplateURL string
	// Dir is the directory the project is created in. Defaults to the
	// current working directory.
	Dir         string
	InitialName string
	Manifest    ManifestDefaults
	// Verbose streams the output of git and the package manager instead of
	// hiding it behind a spinner.
	Verbose bool
}

// Scaffolder creates new Silica Framework projects from the template
// repository. Every step runs once, in order, and the first fatal error stops
// the pipeline without undoing earlier steps.
type Scaffolder struct {
	opts Options
}

// NewScaffolder creates a new project scaffolder
func NewScaffolder(opts Options) *Scaffolder {
	if opts.Executor == nil {
		opts.Executor = exec.NewExecutor(nil)
	}
	if opts.Prompter == nil {
		opts.Prompter = input.NewPrompter(nil, nil)
	}
	return &Scaffolder{opts: opts}
}

// Preflight probes the external tools the pipeline depends on
func (s *Scaffolder) Preflight(ctx context.Context) Tools {
	return Preflight(ctx, s.opts.Executor)
}

// Collect asks for the project name and package manager. Managers the host
// does not support are shown but disabled. Cancelling, either at a prompt or
// through ctx, returns input.ErrCancelled.
func (s *Scaffolder) Collect(ctx context.Context, tools Tools) (Session, error) {
	name, err := s.opts.Prompter.Text(ctx, "What is your bot called?", s.opts.InitialName, ValidateName)
	if err != nil {
		return Session{}, err
	}
	// Prompters are not trusted to have validated
	if err := ValidateName(name); err != nil {
		return Session{}, err
	}

	var choices []input.Choice
	for _, m := range Managers() {
		choice := input.Choice{Name: m.Name}
		if !tools.Supports(m) {
			choice.Disabled = true
			choice.Label = fmt.Sprintf("%s - use '%s' to install", m.Name, m.InstallHint)
		}
		choices = append(choices, choice)
	}

	picked, err := s.opts.Prompter.Select(ctx, "Select which package manager to use", choices)
	if err != nil {
		return Session{}, err
	}
	manager, err := LookupManager(picked)
	if err != nil {
		return Session{}, err
	}

	return Session{ProjectName: name, Manager: manager}, nil
}

// Scaffold creates the project described by session: it checks the target
// is free, clones the template, removes template-only files, rewrites the
// manifest and installs dependencies. It returns the project directory.
func (s *Scaffolder) Scaffold(ctx context.Context, session Session) (string, error) {
	if err := ValidateName(session.ProjectName); err != nil {
		return "", err
	}

	dir, err := s.baseDir()
	if err != nil {
		return "", err
	}
	projectDir := filepath.Join(dir, session.ProjectName)

	if pathExists(projectDir) {
		return "", fmt.Errorf("%w: %s", ErrProjectExists, projectDir)
	}

	output.Info("Cloning the git repository")
	if err := s.run(ctx, dir, "Cloning", "git", "clone", "--", s.opts.TemplateURL, session.ProjectName); err != nil {
		return projectDir, fmt.Errorf("failed to clone template: %w", err)
	}
	output.Success("Cloned the repository")

	if err := Cleanup(projectDir, session.Manager); err != nil {
		return projectDir, err
	}

	if err := RewriteManifest(projectDir, session.ProjectName, s.opts.Manifest); err != nil {
		return projectDir, err
	}

	output.Info("Installing dependencies")
	if err := s.run(ctx, projectDir, "Installing", session.Manager.Name, session.Manager.InstallArgs()...); err != nil {
		return projectDir, fmt.Errorf("failed to install dependencies: %w", err)
	}
	output.Success("Installed dependencies")

	return projectDir, nil
}

// Run executes the whole pipeline: preflight, prompts, then Scaffold
func (s *Scaffolder) Run(ctx context.Context) (Session, string, error) {
	tools := s.Preflight(ctx)

	session, err := s.Collect(ctx, tools)
	if err != nil {
		return Session{}, "", err
	}
	// An interrupt that lands between the last answer and the clone
	if ctx.Err() != nil {
		return Session{}, "", input.ErrCancelled
	}

	dir, err := s.Scaffold(ctx, session)
	return session, dir, err
}

// Cleanup removes the files that belong to the template rather than to the
// new project: the license, the git metadata and the lockfiles of every
// package manager other than manager. A missing LICENSE is an error; missing
// git metadata and lockfiles are not.
func Cleanup(projectDir string, manager PackageManager) error {
	if err := os.Remove(filepath.Join(projectDir, licenseFile)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", licenseFile, err)
	}
	output.Verbose("Removed " + licenseFile)

	if err := os.RemoveAll(filepath.Join(projectDir, gitDir)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", gitDir, err)
	}
	output.Verbose("Removed " + gitDir)

	for _, m := range Managers() {
		if m.Name == manager.Name || m.Lockfile == "" {
			continue
		}
		err := os.Remove(filepath.Join(projectDir, m.Lockfile))
		switch {
		case err == nil:
			output.Verbose("Removed " + m.Lockfile)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to remove %s: %w", m.Lockfile, err)
		}
	}

	return nil
}

// RewriteManifest replaces the template's package.json in projectDir with
// the manifest of a project called name
func RewriteManifest(projectDir, name string, defaults ManifestDefaults) error {
	path := filepath.Join(projectDir, ManifestFile)

	tm, err := ReadTemplateManifest(path)
	if err != nil {
		return err
	}
	if err := WriteManifest(path, BuildManifest(name, tm, defaults)); err != nil {
		return err
	}
	output.Verbose("Rewrote " + ManifestFile)
	return nil
}

func (s *Scaffolder) baseDir() (string, error) {
	if s.opts.Dir != "" {
		return s.opts.Dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// run executes an external command in dir. Its output is hidden behind a
// spinner unless verbose, in which case it is streamed with a gutter.
func (s *Scaffolder) run(ctx context.Context, dir, message, name string, args ...string) error {
	cmd := exec.NewGenericCommand(s.opts.Executor, name).
		WithArgs(args...).
		WithDir(dir)

	output.Verbose("$ " + cmd.String())

	if !s.opts.Verbose {
		return cmd.WithSpinner(message).Run(ctx)
	}

	w := exec.NewPrefixWriter(output.Writer(), "  │ ", lipgloss.Color("240"))
	err := cmd.WithOutput(w).Run(ctx)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// pathExists treats anything but a definite "does not exist" as existing,
// so an unreadable path is never overwritten.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

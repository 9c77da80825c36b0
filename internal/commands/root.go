package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/silica-framework/create-silica/internal/config"
	"github.com/silica-framework/create-silica/internal/metadata"
	"github.com/silica-framework/create-silica/internal/project"
	"github.com/silica-framework/create-silica/pkg/exec"
	"github.com/silica-framework/create-silica/pkg/input"
	"github.com/silica-framework/create-silica/pkg/output"
	"github.com/spf13/cobra"
)

// deps are the collaborators RootCmd wires together. Tests replace them.
type deps struct {
	commandFunc exec.CommandFunc
	dir         string
	configDirs  []string
}

// RootCmd creates and returns the root command for the create-silica CLI
func RootCmd() *cobra.Command {
	return newRootCmd(deps{})
}

func newRootCmd(d deps) *cobra.Command {
	var cfg *config.Config
	info := metadata.Get()

	cmd := &cobra.Command{
		Use:   info.Name,
		Short: info.Description,
		Long: `Creates a new Silica Framework bot:
• Clones the Silica Framework template
• Removes the template's license, git history and foreign lockfiles
• Rewrites package.json for your bot
• Installs dependencies with npm or yarn

The command is interactive; it asks for the bot's name and package manager.`,
		Version:       info.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Flags(), d.configDirs...)
			if err != nil {
				return err
			}
			cfg = loaded
			output.SetVerbose(cfg.Verbose)
			output.SetColor(!cfg.NoColor)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), cfg, d, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Stream git and package manager output")
	cmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")

	return cmd
}

func runCreate(ctx context.Context, cfg *config.Config, d deps, in io.Reader, out, errOut io.Writer) error {
	info := metadata.Get()

	output.SetOutput(out)

	// Initialization phase
	output.Banner(logo)
	output.Blank()
	output.Info(fmt.Sprintf("You are using %s (v%s)", info.Name, info.Version))
	output.Blank()

	scaffolder := project.NewScaffolder(project.Options{
		Executor: exec.NewExecutor(&exec.Options{
			Stdout:      out,
			Stderr:      errOut,
			Spinner:     true,
			CommandFunc: d.commandFunc,
		}),
		Prompter:    input.NewPrompter(in, out),
		TemplateURL: info.TemplateURL,
		Dir:         d.dir,
		InitialName: cfg.InitialName,
		Manifest: project.ManifestDefaults{
			Version:     cfg.Manifest.Version,
			Description: cfg.Manifest.Description,
			Author:      cfg.Manifest.Author,
			License:     cfg.Manifest.License,
		},
		Verbose: cfg.Verbose,
	})

	session, _, err := scaffolder.Run(ctx)
	switch {
	case errors.Is(err, input.ErrCancelled):
		return nil
	case errors.Is(err, project.ErrProjectExists):
		output.Error("Folder already exists, aborting")
		return nil
	case err != nil:
		return err
	}

	reportNextSteps(session)
	return nil
}

// reportNextSteps tells the user how to finish setting up the project
func reportNextSteps(session project.Session) {
	name := session.ProjectName

	output.Blank()
	output.Plain(fmt.Sprintf("%s has been installed under %s, follow the following steps to finalise your installation!",
		output.Accent(name), output.Accent("./"+name)))
	output.Blank()
	output.Plain(fmt.Sprintf("1. Copy '%s' to '%s' and fill in the variables",
		output.Accent(".env.example"), output.Accent(".env")))
	output.Blank()
	output.Plain("2. Run the command below to sync your prisma schema and to generate prisma client")
	output.Step(output.Accent("$ " + session.Manager.SyncCommand()))
	output.Blank()
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/schemagen/internal/cli/config"
	"github.com/conduit-lang/schemagen/internal/cli/ui"
)

// NewInitCommand creates the init command, which writes schemagen.yml
func NewInitCommand(global *globalFlags) *cobra.Command {
	var (
		yes   bool
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a schemagen.yml configuration file",
		Long: `Create a schemagen.yml in the current directory. Without --yes the
values are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if !yes {
				if err := askConfig(cfg); err != nil {
					return err
				}
			}
			if err := config.Write(path, cfg, force); err != nil {
				return &configError{err: err}
			}
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", path), global.noColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Use the defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", config.FileName, "Where to write the file")
	return cmd
}

// askConfig prompts for each setting, starting from cfg's values
func askConfig(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name: "supertype",
			Prompt: &survey.Input{
				Message: "Supertype of marked classes:",
				Default: cfg.Supertype,
			},
			Validate: survey.Required,
		},
		{
			Name: "markerKey",
			Prompt: &survey.Input{
				Message: "Schema key that marks a class:",
				Default: cfg.MarkerKey,
			},
			Validate: survey.Required,
		},
		{
			Name: "defaultKey",
			Prompt: &survey.Input{
				Message: "Schema key holding a property default:",
				Default: cfg.DefaultKey,
			},
			Validate: survey.Required,
		},
		{
			Name: "validate",
			Prompt: &survey.Confirm{
				Message: "Validate schemas against their meta-schema?",
				Default: cfg.ValidateSchema,
			},
		},
		{
			Name: "indent",
			Prompt: &survey.Input{
				Message: "Spaces per indentation level:",
				Default: strconv.Itoa(cfg.Indent),
			},
			Validate: func(ans interface{}) error {
				s, _ := ans.(string)
				if n, err := strconv.Atoi(s); err != nil || n < 1 {
					return fmt.Errorf("enter a positive number")
				}
				return nil
			},
		},
	}

	answers := struct {
		Supertype  string
		MarkerKey  string
		DefaultKey string
		Validate   bool
		Indent     string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Supertype = answers.Supertype
	cfg.MarkerKey = answers.MarkerKey
	cfg.DefaultKey = answers.DefaultKey
	cfg.ValidateSchema = answers.Validate
	cfg.Indent, _ = strconv.Atoi(answers.Indent)
	return nil
}

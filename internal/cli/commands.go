package cli

import (
	"github.com/specialistvlad/mbtitools/internal/app"
	"github.com/specialistvlad/mbtitools/internal/devserver"
	"github.com/spf13/cobra"
)

func (r *runner) extractCommand() *cobra.Command {
	var opts app.ExtractOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Split each configured object literal into one module per block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.Extract(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Job, "job", "", "run only the extract job with this label")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print what would be written without writing")
	return cmd
}

func (r *runner) verifyCommand() *cobra.Command {
	var job string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every emitted module parses and matches its source block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.Verify(cmd.Context(), job)
		},
	}
	cmd.Flags().StringVar(&job, "job", "", "verify only the extract job with this label")
	return cmd
}

func (r *runner) cssAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "css-audit",
		Short: "Report stylesheets that no script imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.CSSAudit(cmd.Context())
		},
	}
}

func (r *runner) renameClassesCommand() *cobra.Command {
	var opts app.RenameOptions
	cmd := &cobra.Command{
		Use:   "rename-classes",
		Short: "Rename conflicting CSS classes in markup and stylesheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.RenameClasses(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Job, "job", "", "run only the class_rename job with this label")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report changes without writing")
	return cmd
}

func (r *runner) indentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indent",
		Short: "Check or fix the indentation of generated modules",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Report files whose first property is not indented",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := r.newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.IndentCheck(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "fix",
			Short: "Indent the first property of every generated file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := r.newApp(cmd.Context())
				if err != nil {
					return err
				}
				return a.IndentFix(cmd.Context())
			},
		},
	)
	return cmd
}

func (r *runner) devCommand() *cobra.Command {
	var yes, no bool
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Free the dev-server ports and relaunch the development server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newApp(cmd.Context())
			if err != nil {
				return err
			}
			answer := devserver.ChoiceAsk
			switch {
			case yes:
				answer = devserver.ChoiceYes
			case no:
				answer = devserver.ChoiceNo
			}
			return a.Dev(cmd.Context(), answer)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "close running instances without asking")
	cmd.Flags().BoolVarP(&no, "no", "n", false, "keep running instances without asking")
	cmd.MarkFlagsMutuallyExclusive("yes", "no")
	return cmd
}

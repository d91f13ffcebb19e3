package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"salesforce-metadata-parser/internal/prompt"
	"salesforce-metadata-parser/metadata"
)

// promptSession is the state passed from one chained step to the next.
type promptSession struct {
	editor   *prompt.Editor
	log      logrus.FieldLogger
	out      io.Writer
	template *metadata.PromptTemplate
}

func (s *promptSession) loaded() (*metadata.PromptTemplate, error) {
	if s.template == nil {
		return nil, errors.New("no prompt template loaded, start the chain with load-prompt")
	}

	return s.template, nil
}

// promptStep is one chainable prompt-template sub-command. build registers
// the step's flags and returns the function running it.
type promptStep struct {
	name  string
	short string
	build func(fs *pflag.FlagSet) func(s *promptSession) error
}

var promptSteps = []promptStep{
	{
		name:  "load-prompt",
		short: "Load a prompt template from --source-file or --api-name [--variant]",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			source := fs.String("source-file", "", "Prompt template file")
			apiName := fs.String("api-name", "", "API name, resolved below the project directory")
			variant := fs.String("variant", "", "Variant appended to the API name")

			return func(s *promptSession) error {
				path := *source
				if path == "" {
					if *apiName == "" {
						return errors.New("load-prompt: --source-file or --api-name is required")
					}

					path = s.editor.DefaultPath(*apiName, *variant)
				}

				fmt.Fprintf(s.out, "Parsing metadata file: %s\n", path)

				p, err := s.editor.Load(path)
				if err != nil {
					return err
				}

				s.template = p

				return nil
			}
		},
	},
	{
		name:  "filter-active-version",
		short: "Keep only the active version",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				return s.editor.FilterActiveVersion(p)
			})
		},
	},
	{
		name:  "filter-last-version",
		short: "Keep only the last version and make it active",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				return s.editor.FilterLastVersion(p)
			})
		},
	},
	{
		name:  "last-n-versions",
		short: "Keep the last --count versions",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			count := fs.Int("count", 1, "Number of versions to keep")

			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				return s.editor.FilterLastN(p, *count)
			})
		},
	},
	{
		name:  "new-version",
		short: "Append a draft copy of the last version",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				_, err := s.editor.NewVersion(p)
				return err
			})
		},
	},
	{
		name:  "clone-prompt",
		short: "Rename the template with --api-suffix and --label-suffix, keeping the last version",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			apiSuffix := fs.String("api-suffix", "", "Suffix appended to the developer name")
			labelSuffix := fs.String("label-suffix", "", "Suffix appended to the label")

			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				if *apiSuffix == "" {
					return errors.New("clone-prompt: --api-suffix is required")
				}

				c, err := s.editor.Clone(p, *apiSuffix, *labelSuffix)
				if err != nil {
					return err
				}

				s.template = c

				return nil
			})
		},
	},
	{
		name:  "set-status",
		short: "Set the --status of the last version",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			status := fs.String("status", "", "Published or Draft")

			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				return s.editor.SetStatus(p, *status)
			})
		},
	},
	{
		name:  "save-prompt",
		short: "Save the template to --target-file or --api-name [--variant]",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			target := fs.String("target-file", "", "Destination file")
			apiName := fs.String("api-name", "", "API name, resolved below the project directory")
			variant := fs.String("variant", "", "Variant appended to the API name")

			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				path := *target
				if path == "" {
					name := *apiName
					if name == "" {
						name = p.DeveloperName()
					}

					path = s.editor.DefaultPath(name, *variant)
				}

				fmt.Fprintf(s.out, "Saving metadata file: %s\n", path)

				return s.editor.Save(p, path)
			})
		},
	},
	{
		name:  "save-split-prompts",
		short: "Save one template file per version",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			return withTemplate(func(s *promptSession, p *metadata.PromptTemplate) error {
				paths, err := s.editor.SaveSplit(p)
				for _, path := range paths {
					fmt.Fprintf(s.out, "Saving metadata file: %s\n", path)
				}

				return err
			})
		},
	},
	{
		name:  "copy-prompt",
		short: "Copy --source-file to --target-file in canonical form",
		build: func(fs *pflag.FlagSet) func(s *promptSession) error {
			source := fs.String("source-file", "", "Prompt template file")
			target := fs.String("target-file", "", "Destination file")

			return func(s *promptSession) error {
				if *source == "" || *target == "" {
					return errors.New("copy-prompt: --source-file and --target-file are required")
				}

				p, err := s.editor.Load(*source)
				if err != nil {
					return err
				}

				fmt.Fprintf(s.out, "Saving metadata file: %s\n", *target)

				return s.editor.Save(p, *target)
			}
		},
	},
}

// withTemplate runs fn on the loaded template. Steps that find nothing to
// act on log a warning and let the chain continue.
func withTemplate(fn func(s *promptSession, p *metadata.PromptTemplate) error) func(s *promptSession) error {
	return func(s *promptSession) error {
		p, err := s.loaded()
		if err != nil {
			return err
		}

		err = fn(s, p)
		if errors.Is(err, prompt.ErrNoVersions) || errors.Is(err, prompt.ErrNoActiveVersion) {
			s.log.Warn(err.Error())
			return nil
		}

		return err
	}
}

func findStep(name string) (promptStep, bool) {
	for _, st := range promptSteps {
		if st.name == name {
			return st, true
		}
	}

	return promptStep{}, false
}

type boundStep struct {
	name string
	run  func(s *promptSession) error
}

// parseSteps splits args into steps, each followed by its own flags.
func parseSteps(args []string) ([]boundStep, error) {
	var steps []boundStep

	for i := 0; i < len(args); {
		st, ok := findStep(args[i])
		if !ok {
			return nil, fmt.Errorf("unknown step %q (available: %s)", args[i], stepNames())
		}

		fs := pflag.NewFlagSet(st.name, pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		run := st.build(fs)

		j := i + 1
		for j < len(args) {
			if _, next := findStep(args[j]); next {
				break
			}

			// the value of "--flag value" is never a step name
			if takesValue(fs, args[j]) {
				j++
			}

			j++
		}

		j = min(j, len(args))

		if err := fs.Parse(args[i+1 : j]); err != nil {
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}

		if fs.NArg() > 0 {
			return nil, fmt.Errorf("%s: unexpected arguments %v", st.name, fs.Args())
		}

		steps = append(steps, boundStep{name: st.name, run: run})
		i = j
	}

	return steps, nil
}

// takesValue reports whether arg is a flag of fs whose value is the next
// argument.
func takesValue(fs *pflag.FlagSet, arg string) bool {
	var f *pflag.Flag

	switch {
	case strings.HasPrefix(arg, "--"):
		name, _, hasValue := strings.Cut(arg[2:], "=")
		if hasValue {
			return false
		}

		f = fs.Lookup(name)
	case strings.HasPrefix(arg, "-") && len(arg) == 2:
		f = fs.ShorthandLookup(arg[1:])
	}

	return f != nil && f.NoOptDefVal == ""
}

func stepNames() string {
	names := make([]string, len(promptSteps))
	for i, st := range promptSteps {
		names[i] = st.name
	}

	return strings.Join(names, ", ")
}

func promptUsage() string {
	var b strings.Builder

	b.WriteString("Steps:\n")

	for _, st := range promptSteps {
		fs := pflag.NewFlagSet(st.name, pflag.ContinueOnError)
		st.build(fs)

		fmt.Fprintf(&b, "  %-22s %s\n", st.name, st.short)

		if usage := fs.FlagUsages(); usage != "" {
			for line := range strings.SplitSeq(strings.TrimRight(usage, "\n"), "\n") {
				b.WriteString("      " + line + "\n")
			}
		}
	}

	return b.String()
}

// extractGlobalFlags applies the root's persistent flags found anywhere in
// args and returns the other arguments. The prompt-template command parses
// its own flags, so cobra leaves global flags in its arguments.
func extractGlobalFlags(root *cobra.Command, args []string) ([]string, error) {
	var rest []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")

		f := root.PersistentFlags().Lookup(name)
		if !strings.HasPrefix(arg, "--") || f == nil {
			rest = append(rest, arg)
			continue
		}

		if !hasValue {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("flag needs an argument: --%s", name)
			}

			i++
			value = args[i]
		}

		if err := f.Value.Set(value); err != nil {
			return nil, fmt.Errorf("invalid value %q for --%s: %w", value, name, err)
		}
	}

	return rest, nil
}

func newPromptTemplateCmd(a *app) *cobra.Command {
	var stepArgs []string

	return &cobra.Command{
		Use:   "prompt-template <step> [flags] [<step> [flags]]...",
		Short: "Edit a prompt template through chained steps",
		Long: `The prompt-template command runs steps in order on one loaded template.
Each step takes its own flags.

` + promptUsage() + `
Example:
  sfmeta prompt-template load-prompt --api-name Summary new-version save-prompt
  sfmeta prompt-template load-prompt --source-file a.xml clone-prompt --api-suffix v2 --label-suffix "(v2)" save-prompt`,
		Args: cobra.MinimumNArgs(1),
		// Steps carry their own flags.
		DisableFlagParsing: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rest, err := extractGlobalFlags(cmd.Root(), args)
			if err != nil {
				return err
			}

			stepArgs = rest

			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(stepArgs) == 0 || stepArgs[0] == "-h" || stepArgs[0] == "--help" {
				return cmd.Help()
			}

			steps, err := parseSteps(stepArgs)
			if err != nil {
				return err
			}

			s := &promptSession{
				editor: prompt.NewEditor(a.log, a.cfg.ProjectDir, a.codecOptions()...),
				log:    a.log,
				out:    cmd.OutOrStdout(),
			}

			for _, st := range steps {
				a.log.WithField("step", st.name).Debug("running step")

				if err := st.run(s); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

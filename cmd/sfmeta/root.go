package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"salesforce-metadata-parser/internal/codec"
	"salesforce-metadata-parser/internal/config"
	"salesforce-metadata-parser/internal/logging"
	"salesforce-metadata-parser/internal/schema"
	"salesforce-metadata-parser/metadata"
)

// app is the state shared by the commands of one invocation.
type app struct {
	// Global flags
	configPath string
	logLevel   string
	logDir     string

	cfg      *config.Config
	log      *logrus.Logger
	closer   io.Closer
	registry *schema.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "sfmeta",
		Short: "Parse and edit Salesforce metadata files",
		Long: `sfmeta reads Salesforce metadata XML files into typed trees and writes
them back formatted the way the platform tooling does. It can read and set
single fields, edit prompt templates through chained steps, and decode
metadata types declared in YAML schema files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultFile+")")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Console log level (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logDir, "log-dir", "", "Directory for detailed log files (overrides config)")

	cmd.AddCommand(
		newVersionCmd(),
		newMetadataCmd(a),
		newPromptTemplateCmd(a),
		newSchemaCmd(a),
	)

	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, configures logging and compiles the
// configured schema files.
func (a *app) setup(cmd *cobra.Command) error {
	path, optional := a.configPath, false
	if path == "" {
		path, optional = config.DefaultFile, true
	}

	cfg, err := config.LoadFile(path, optional)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	if a.logDir != "" {
		cfg.Log.Dir = a.logDir
	}

	log, closer, err := logging.Configure(logging.Options{
		Level:     cfg.Log.Level,
		FileLevel: cfg.Log.FileLevel,
		Dir:       cfg.Log.Dir,
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg, a.log, a.closer = cfg, log, closer
	a.registry = schema.NewRegistry(metadata.Metadata, metadata.GenAiPromptTemplate)

	for _, p := range cfg.Schemas {
		if err := a.addSchema(p); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) addSchema(path string) error {
	f, err := schema.LoadFile(path)
	if err != nil {
		return err
	}

	res := a.registry.Add(f)
	for _, w := range res.Warnings {
		a.log.WithField("schema", path).Warn(w.String())
	}

	if err := res.Error(); err != nil {
		return fmt.Errorf("schema %s: %w", path, err)
	}

	a.log.WithFields(logrus.Fields{"schema": path, "types": len(f.Types)}).Debug("schema loaded")

	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

// codecOptions are the options every decode and encode of the invocation
// uses.
func (a *app) codecOptions() []codec.Option {
	return []codec.Option{
		codec.WithLogger(a.log),
		codec.WithFallback(metadata.Metadata),
		codec.WithIndent(a.cfg.Indent),
	}
}

// Copyright 2026 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/credtree/credtree/pkg/logging"
	"github.com/credtree/credtree/pkg/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameRecords        = "records"
	optionNameSample         = "sample"
	optionNameWorkers        = "workers"
	optionNameProofCacheSize = "proof-cache-size"
	optionNameVerbosity      = "verbosity"
	optionNameOutput         = "output"
	optionNameMetricsFile    = "metrics-file"
	optionNameReference      = "reference"
	optionNameRoot           = "root"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	fs      afero.Fs
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "credtree",
			Short:         "Commit credential records to a hash tree and verify them",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()

	c.initRootCmd()
	c.initLeavesCmd()
	c.initTreeCmd()
	c.initProofCmd()
	c.initVerifyCmd()
	c.initHashCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.credtree.yaml)")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".credtree"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".credtree" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}
	config.SetFs(c.fs)

	// Environment
	config.SetEnvPrefix("credtree")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

// setAllFlags adds the flags shared by every command that builds a tree.
func (c *command) setAllFlags(cmd *cobra.Command) {
	cmd.Flags().String(optionNameRecords, "", "path to a YAML or JSON file with the list of records")
	cmd.Flags().Bool(optionNameSample, false, "add the built-in sample records")
	cmd.Flags().Int(optionNameWorkers, 0, "number of hashing goroutines, 0 uses the number of CPUs")
	cmd.Flags().Int(optionNameProofCacheSize, registry.DefaultProofCacheSize, "number of proofs cached for the current tree")
	cmd.Flags().String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	cmd.Flags().String(optionNameOutput, outputText, "output format: text, json or yaml")
	cmd.Flags().String(optionNameMetricsFile, "", "write the Prometheus metrics of the run to this file")
}

func newLogger(cmd *cobra.Command, verbosity string) (logging.Logger, error) {
	var logger logging.Logger
	switch verbosity {
	case "0", "silent":
		logger = logging.New(ioutil.Discard, 0)
	case "1", "error":
		logger = logging.New(cmd.ErrOrStderr(), logrus.ErrorLevel)
	case "2", "warn":
		logger = logging.New(cmd.ErrOrStderr(), logrus.WarnLevel)
	case "3", "info":
		logger = logging.New(cmd.ErrOrStderr(), logrus.InfoLevel)
	case "4", "debug":
		logger = logging.New(cmd.ErrOrStderr(), logrus.DebugLevel)
	case "5", "trace":
		logger = logging.New(cmd.ErrOrStderr(), logrus.TraceLevel)
	default:
		return nil, fmt.Errorf("unknown verbosity level %q", verbosity)
	}
	return logger, nil
}

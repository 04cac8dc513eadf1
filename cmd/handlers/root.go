/*
Copyright © 2025 84EM

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/config"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "localpages",
		Short: "Generate and maintain SEO local pages on a WordPress site",
		Long: `localpages creates and maintains one SEO page per US state and ten per
state's major cities on a WordPress site, drafting content and metadata
through a generative text API.

Examples:
  localpages generate                    # all states and cities
  localpages generate --states-only
  localpages generate Iowa               # one state page
  localpages generate Iowa "Des Moines"  # one city page
  localpages generate Iowa all --with-state
  localpages update                      # regenerate every existing page
  localpages sitemap --output sitemap.xml
  localpages migrate                     # legacy slugs to the current structure`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.localpages.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewUpdateCmd())
	rootCmd.AddCommand(NewDeleteCmd())
	rootCmd.AddCommand(NewSitemapCmd())
	rootCmd.AddCommand(NewIndexCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewRelinkCmd())
	rootCmd.AddCommand(NewMigrateCmd())
	rootCmd.AddCommand(NewModelsCmd())
	rootCmd.AddCommand(NewStatusCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads the config file and environment before any command runs.
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if cfg.App.TestMode {
		logger.SetTestMode(true)
	}
}

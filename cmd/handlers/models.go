package handlers

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/config"
	"github.com/84emllc/84em-local-pages-sub000/internal/llm"
)

// NewModelsCmd creates the models command group: list available models,
// validate one, and select the one used for generation.
func NewModelsCmd() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List, validate, and select generative models",
	}

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the models available to the configured credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildModelClient("")
			if err != nil {
				return err
			}
			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Printf("%-40s %s (%s)\n", m.ID, m.DisplayName, m.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	})

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "validate <model>",
		Short: "Send a minimal test prompt against a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildModelClient("")
			if err != nil {
				return err
			}
			if err := client.ValidateModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Model %s validated\n", args[0])
			return nil
		},
	})

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "select <model>",
		Short: "Validate a model and store it as the generation default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, secrets, err := buildModelClient(args[0])
			if err != nil {
				return err
			}
			if err := client.ValidateModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := secrets.Set(config.SecretModel, args[0]); err != nil {
				return err
			}
			fmt.Printf("Selected model %s\n", args[0])
			return nil
		},
	})

	return modelsCmd
}

// buildModelClient wires a client with only a credential; model commands must
// work before any model has been selected.
func buildModelClient(model string) (*llm.Client, config.SecretStore, error) {
	secrets := config.NewViperSecretStore(cfg.App.TestMode)

	apiKey := cfg.API.Key
	if apiKey == "" {
		apiKey, _ = secrets.Get(config.SecretAPIKey)
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("no API key configured; set LOCAL_PAGES_API_KEY")
	}

	client := llm.NewClient(apiKey, model,
		llm.WithBaseURL(cfg.API.BaseURL),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	return client, secrets, nil
}

// Package cmd contains the diseasectl commands.
package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/giygas/disease-dashboard/completion"
	"github.com/giygas/disease-dashboard/config"
	"github.com/giygas/disease-dashboard/pipeline"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "diseasectl",
	Short: "Look up disease information from the terminal",
	Long: `diseasectl asks a hosted completion model for information about a
disease and shows the same dashboard as the web server: key statistics,
recovery and mortality rates, the global distribution, recovery options
and medications.

The API key is read from OPENAI_API_KEY (or DISEASE_API_KEY). Other
settings can be given as flags or as DISEASE_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("model", config.DefaultModel, "completion model identifier")
	rootCmd.PersistentFlags().String("base-url", config.DefaultBaseURL, "completion endpoint base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "completion request timeout (0 waits for the endpoint)")

	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("DISEASE")
	viper.AutomaticEnv()
	_ = viper.BindEnv("api_key", "DISEASE_API_KEY", "OPENAI_API_KEY")
}

// newPipeline builds the lookup pipeline from the current settings
func newPipeline() (*pipeline.Pipeline, error) {
	client, err := completion.NewClient(completion.Config{
		APIKey:     viper.GetString("api_key"),
		Model:      viper.GetString("model"),
		BaseURL:    viper.GetString("base_url"),
		HTTPClient: &http.Client{Timeout: viper.GetDuration("timeout")},
	})
	if errors.Is(err, completion.ErrMissingAPIKey) {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if err != nil {
		return nil, err
	}
	return pipeline.New(client), nil
}

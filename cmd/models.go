package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/zeroml/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	modelsKind string
	modelsJSON bool
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models that can be requested with --model-name",
	Example: `  zeroml models
  zeroml models --kind classification`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := prompt.Catalog()
		kinds := []prompt.Kind{prompt.KindRegression, prompt.KindClassification}
		if modelsKind != "" {
			k, err := prompt.ParseKind(modelsKind)
			if err != nil {
				return err
			}
			kinds = []prompt.Kind{k}
		}
		out := cmd.OutOrStdout()
		if modelsJSON {
			m := make(map[prompt.Kind][]string, len(kinds))
			for _, k := range kinds {
				m[k] = cat[k]
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}
		for i, k := range kinds {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s:\n", k)
			for _, name := range cat[k] {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsKind, "kind", "", "only list regression|classification models")
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print as JSON")
}

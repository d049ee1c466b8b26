package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaheed/coursenova/pkg/client"
)

var globalFlags struct {
	Server string
	Token  string
}

// rootCmd is the coursectl entry point.
var rootCmd = &cobra.Command{
	Use:           "coursectl",
	Short:         "Manage courses through the course API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newClient() *client.Client {
	return client.New(globalFlags.Server, globalFlags.Token)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Server, "server", envDefault("COURSES_URL", "http://localhost:8080"), "course API base URL")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Token, "token", os.Getenv("COURSES_TOKEN"), "bearer token")

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, patchCmd, deleteCmd, tokenCmd)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	Execute()
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaheed/coursenova/internal/api"
)

var (
	tokenKey     string
	tokenSubject string
	tokenRoles   []string
	tokenTTL     time.Duration
	tokenRemote  bool
)

// tokenCmd mints a JWT locally with the shared signing key, or asks the
// server for one with --remote.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenRemote {
			tok, err := newClient().IssueToken(cmd.Context(), tokenSubject, tokenRoles, int(tokenTTL/time.Minute))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		}
		if tokenKey == "" {
			return fmt.Errorf("--key or JWT_SIGNING_KEY is required to sign locally")
		}
		tok, _, err := api.IssueToken([]byte(tokenKey), tokenSubject, tokenRoles, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenKey, "key", os.Getenv("JWT_SIGNING_KEY"), "HS256 signing key")
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "coursectl", "token subject")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "roles", []string{api.RoleEditor}, "roles carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	tokenCmd.Flags().BoolVar(&tokenRemote, "remote", false, "ask the server's /tokens endpoint instead of signing locally")
}

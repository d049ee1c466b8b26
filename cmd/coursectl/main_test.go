package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/vaheed/coursenova/internal/api"
	"github.com/vaheed/coursenova/internal/config"
	"github.com/vaheed/coursenova/internal/store"
	"github.com/vaheed/coursenova/pkg/types"
)

// resetFlags puts every flag back to its default; cobra keeps values and
// Changed between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.Trim(f.DefValue, "[]")
			vals := []string{}
			if def != "" {
				vals = strings.Split(def, ",")
			}
			_ = sv.Replace(vals)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCourseCommands(t *testing.T) {
	ts := httptest.NewServer(api.NewServer(store.NewMemory(), config.Config{}).Router())
	defer ts.Close()

	out, err := run(t, "--server", ts.URL, "create", "--name", "Geometry", "--description", "Euclid")
	require.NoError(t, err)
	var c types.Course
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	require.Equal(t, "Geometry", c.Name)
	id := types.FormatID(c.ID)

	out, err = run(t, "--server", ts.URL, "list", "--name", "Geometry")
	require.NoError(t, err)
	var list []types.Course
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)

	out, err = run(t, "--server", ts.URL, "patch", id, "--description", "Axioms")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	require.Equal(t, "Geometry", c.Name)
	require.Equal(t, "Axioms", c.Description)

	out, err = run(t, "--server", ts.URL, "get", id)
	require.NoError(t, err)
	require.Contains(t, out, "Axioms")

	// flags set on patch do not leak into a later create
	out, err = run(t, "--server", ts.URL, "create", "--name", "Topology")
	require.NoError(t, err)
	var second types.Course
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	require.Equal(t, "Topology", second.Name)
	require.Empty(t, second.Description)

	out, err = run(t, "--server", ts.URL, "delete", id)
	require.NoError(t, err)
	require.Contains(t, out, "deleted course")

	_, err = run(t, "--server", ts.URL, "get", id)
	require.Error(t, err)
	require.Contains(t, err.Error(), "CRS-404")

	_, err = run(t, "--server", ts.URL, "get", "abc")
	require.Error(t, err)
}

func TestTokenCommandSignsLocally(t *testing.T) {
	out, err := run(t, "token", "--key", "secret", "--sub", "ops", "--roles", "admin")
	require.NoError(t, err)
	tok := strings.TrimSpace(out)
	require.Equal(t, 2, strings.Count(tok, "."))

	ts := httptest.NewServer(api.NewServer(store.NewMemory(), config.Config{RequireAuth: true, JWTSigningKey: "secret"}).Router())
	defer ts.Close()
	_, err = run(t, "--server", ts.URL, "--token", tok, "create", "--name", "Logic")
	require.NoError(t, err)
	_, err = run(t, "--server", ts.URL, "--token", "", "list")
	require.Error(t, err)
}

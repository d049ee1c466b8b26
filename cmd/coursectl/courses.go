package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaheed/coursenova/pkg/client"
	"github.com/vaheed/coursenova/pkg/types"
)

// courseFlags holds the --name/--description values of one command.
type courseFlags struct {
	name        string
	description string
}

var (
	listID   int64
	listName string

	createFlags courseFlags
	updateFlags courseFlags
	patchFlags  courseFlags
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses, optionally filtered by id or name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f types.CourseFilter
		if cmd.Flags().Changed("id") {
			id := listID
			f.ID = &id
		}
		if cmd.Flags().Changed("name") {
			name := listName
			f.Name = &name
		}
		courses, err := newClient().ListCourses(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), courses)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := types.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient().GetCourse(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient().CreateCourse(cmd.Context(), createFlags.name, createFlags.description)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a course's name and description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := types.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient().UpdateCourse(cmd.Context(), id, updateFlags.name, updateFlags.description)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var patchCmd = &cobra.Command{
	Use:   "patch <id>",
	Short: "Change only the given fields of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := types.ParseID(args[0])
		if err != nil {
			return err
		}
		var in client.CourseInput
		if cmd.Flags().Changed("name") {
			in.Name = &patchFlags.name
		}
		if cmd.Flags().Changed("description") {
			in.Description = &patchFlags.description
		}
		if in.Name == nil && in.Description == nil {
			return fmt.Errorf("nothing to change: pass --name or --description")
		}
		c, err := newClient().PatchCourse(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := types.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := newClient().DeleteCourse(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted course %d\n", id)
		return nil
	},
}

func init() {
	listCmd.Flags().Int64Var(&listID, "id", 0, "only the course with this id")
	listCmd.Flags().StringVar(&listName, "name", "", "only courses with exactly this name")

	for c, f := range map[*cobra.Command]*courseFlags{createCmd: &createFlags, updateCmd: &updateFlags, patchCmd: &patchFlags} {
		c.Flags().StringVar(&f.name, "name", "", "course name")
		c.Flags().StringVar(&f.description, "description", "", "course description")
	}
	_ = createCmd.MarkFlagRequired("name")
	_ = updateCmd.MarkFlagRequired("name")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/types"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage manual projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual and GitHub projects",
	RunE:  runProjectsList,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a manual project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsAdd,
}

var projectsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a manual project by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsRm,
}

var (
	projectDescription string
	projectLink        string
	projectTags        string
)

func init() {
	projectsAddCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description (required)")
	projectsAddCmd.Flags().StringVar(&projectLink, "link", "", "Project URL")
	projectsAddCmd.Flags().StringVar(&projectTags, "tags", "", "Comma-separated tags")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsRmCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	if err := app.store.Profile.FetchGithubProjects(cmd.Context()); err != nil {
		app.logger.Warn("github projects unavailable", "error", err)
	}
	p := app.store.Profile.Get()
	app.printer.PrintProjects(p.ManualProjects, p.GithubProjects)
	return nil
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	project, err := app.store.Profile.AddProject(cmd.Context(), types.ProjectDraft{
		Title:       args[0],
		Description: projectDescription,
		Link:        projectLink,
		Tags:        projectTags,
	})
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Project added", fmt.Sprintf("%s #%s", project.Title, project.ID))
	return nil
}

func runProjectsRm(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := app.store.Profile.DeleteProject(cmd.Context(), types.ID(args[0])); err != nil {
		return err
	}
	app.printer.PrintMessage("Project deleted", "#"+args[0])
	return nil
}

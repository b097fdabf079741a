package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search jobs and track applications",
}

var jobsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job listings",
	Long: `Search job listings. Blank fields use the defaults (Software Engineer, India,
entry level). With --auto the query is seeded from the profile's skills.`,
	RunE: runJobsSearch,
}

var jobsSaveCmd = &cobra.Command{
	Use:   "save URL",
	Short: "Save a job to the applied list",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsSave,
}

var jobsAppliedCmd = &cobra.Command{
	Use:   "applied",
	Short: "List applied jobs",
	RunE:  runJobsApplied,
}

var (
	jobsQuery    string
	jobsLocation string
	jobsLevel    string
	jobsAuto     bool

	saveTitle    string
	saveCompany  string
	saveLocation string
	saveDate     string
)

func init() {
	jobsSearchCmd.Flags().StringVarP(&jobsQuery, "query", "q", "", "Job title or keywords")
	jobsSearchCmd.Flags().StringVarP(&jobsLocation, "location", "l", "", "Location")
	jobsSearchCmd.Flags().StringVar(&jobsLevel, "level", "", "Experience level")
	jobsSearchCmd.Flags().BoolVar(&jobsAuto, "auto", false, "Seed the query from profile skills")

	jobsSaveCmd.Flags().StringVar(&saveTitle, "title", "", "Job title (required)")
	jobsSaveCmd.Flags().StringVar(&saveCompany, "company", "", "Company name")
	jobsSaveCmd.Flags().StringVar(&saveLocation, "location", "", "Job location")
	jobsSaveCmd.Flags().StringVar(&saveDate, "date", "", "Posting date (defaults to now)")

	jobsCmd.AddCommand(jobsSearchCmd)
	jobsCmd.AddCommand(jobsSaveCmd)
	jobsCmd.AddCommand(jobsAppliedCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsSearch(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	ctx := cmd.Context()

	if jobsAuto {
		if err := loadProfile(cmd); err != nil {
			return err
		}
		if err := app.store.Jobs.AutoSearch(ctx, app.store.Profile.Get()); err != nil {
			return err
		}
	} else {
		criteria := types.SearchCriteria{Query: jobsQuery, Location: jobsLocation, Level: jobsLevel}
		if _, err := app.store.Jobs.Search(ctx, criteria); err != nil {
			return err
		}
	}
	app.printer.PrintJobs(app.store.Jobs.State().Results)
	return nil
}

func runJobsSave(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	job := types.Job{
		Position: saveTitle,
		Company:  saveCompany,
		Location: saveLocation,
		Date:     saveDate,
		JobURL:   args[0],
	}

	err := app.store.Profile.SaveJob(cmd.Context(), job)
	var conflict *gateway.ConflictError
	if errors.As(err, &conflict) {
		app.printer.PrintMessage("Already saved", app.store.Profile.State().Warning)
		return nil
	}
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Job saved", job.JobURL)
	return nil
}

func runJobsApplied(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := app.store.Profile.LoadAppliedJobs(cmd.Context()); err != nil {
		return err
	}
	app.printer.PrintAppliedJobs(app.store.Profile.Get().AppliedJobs)
	return nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and edit the student profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile with GitHub and LeetCode activity",
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update editable profile fields given as --set KEY=VALUE.

Keys: name, rollNumber, mobileNumber, githubUsername, linkedinUrl, leetcodeUrl,
hackerrankUrl, codechefUrl, codeforcesUrl.`,
	RunE: runProfileUpdate,
}

var profileSemesterCmd = &cobra.Command{
	Use:   "semester NAME GRADE",
	Short: "Record a semester grade for this session's view",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileSemester,
}

var (
	profileNoEnrich bool
	profileSet      []string
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileNoEnrich, "no-enrich", false, "Skip GitHub and LeetCode lookups")
	profileUpdateCmd.Flags().StringArrayVar(&profileSet, "set", nil, "Field to update as KEY=VALUE (repeatable)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileSemesterCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	if !profileNoEnrich {
		if err := app.store.Profile.Enrich(cmd.Context()); err != nil {
			app.logger.Warn("profile enrichment incomplete", "error", err)
		}
	}

	st := app.store.Profile.State()
	app.printer.PrintProfile(st.Profile)
	app.printer.PrintSkills(st.Profile.Skills)
	app.printer.PrintProjects(st.Profile.ManualProjects, st.Profile.GithubProjects)
	if st.Profile.LeetcodeStats != nil {
		app.printer.PrintLeetCode(st.Profile.LeetcodeStats)
	} else if st.LeetCode.Error != "" {
		app.printer.PrintMessage("LeetCode", st.LeetCode.Error)
	}
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	fields := make(map[string]string, len(profileSet))
	for _, kv := range profileSet {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return &types.ValidationError{Field: "set", Message: fmt.Sprintf("%q is not KEY=VALUE", kv)}
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := app.store.Profile.UpdateFields(cmd.Context(), fields); err != nil {
		return err
	}
	app.printer.PrintMessage("Profile updated", fmt.Sprintf("%d field(s) saved.", len(fields)))
	return nil
}

// runProfileSemester records a semester locally. The Gateway has no endpoint
// for single semesters, so the value only lives for this invocation and the
// updated grade table is printed.
func runProfileSemester(cmd *cobra.Command, args []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	if err := app.store.Profile.AddSemester(args[0], args[1]); err != nil {
		return err
	}
	app.printer.PrintProfile(app.store.Profile.Get())
	return nil
}

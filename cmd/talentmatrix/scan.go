package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/store"
	"github.com/jonathan/talentmatrix/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [FILE]",
	Short: "Extract skills from a resume",
	Long: `Extract skills from a resume file, or from the resume stored on the profile
when no file is given. With --apply the extracted skills are added to the
profile as Intermediate skills tagged "Extracted".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanApply bool
	scanRaw   bool
)

func init() {
	scanCmd.Flags().BoolVar(&scanApply, "apply", false, "Add the extracted skills to the profile")
	scanCmd.Flags().BoolVar(&scanRaw, "raw", false, "Print the raw extracted text instead of categories")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	ctx := cmd.Context()

	// The stored resume URL and the existing skills both come from the profile.
	if len(args) == 0 || scanApply {
		if err := loadProfile(cmd); err != nil {
			return err
		}
	}

	var src store.ScanSource
	if len(args) == 1 {
		file, closeFn, err := openUpload(args[0])
		if err != nil {
			return err
		}
		defer closeFn()
		src.File = file
	} else {
		src.StoredURL = app.store.Profile.Get().ResumeRemoteURL
		if src.StoredURL == "" {
			return &types.ValidationError{Field: "file", Message: "no resume given and none stored on the profile"}
		}
	}

	result, err := app.store.Resume.Scan(ctx, src)
	if err != nil {
		return err
	}
	if scanRaw {
		app.store.Resume.ToggleRawView()
	}
	app.printer.PrintExtractResult(result, app.store.Resume.State().ShowRaw)

	if !scanApply {
		return nil
	}
	added, err := store.ApplyExtractedSkills(ctx, result, app.store.Profile)
	app.printer.PrintMessage("Skills applied", fmt.Sprintf("%d new skill(s) added to the profile.", added))
	return err
}

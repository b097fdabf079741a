package main

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a resume or profile photo",
}

var uploadResumeCmd = &cobra.Command{
	Use:   "resume FILE",
	Short: "Replace the stored resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadResume,
}

var uploadPhotoCmd = &cobra.Command{
	Use:   "photo FILE",
	Short: "Replace the profile photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadPhoto,
}

func init() {
	uploadCmd.AddCommand(uploadResumeCmd)
	uploadCmd.AddCommand(uploadPhotoCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	file, closeFn, err := openUpload(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	url, err := app.store.Profile.UploadResume(cmd.Context(), *file)
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Resume uploaded", url)
	return nil
}

func runUploadPhoto(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	file, closeFn, err := openUpload(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	url, err := app.store.Profile.UploadPhoto(cmd.Context(), *file)
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Photo uploaded", url)
	return nil
}

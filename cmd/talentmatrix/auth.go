package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

// ---------------------------------------------------------------------
// login / logout
// ---------------------------------------------------------------------

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	RunE:  runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (defaults to TALENTMATRIX_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("TALENTMATRIX_PASSWORD")
	}

	id, err := app.store.Session.Login(cmd.Context(), types.LoginRequest{Email: loginEmail, Password: password})
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Logged in", fmt.Sprintf("Welcome back. Student id %s.", id))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if err := app.store.Session.Logout(cmd.Context()); err != nil {
		return err
	}
	app.printer.PrintMessage("Logged out", "Session cleared.")
	return nil
}

// ---------------------------------------------------------------------
// signup / placement
// ---------------------------------------------------------------------

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account (step one of registration)",
	RunE:  runSignup,
}

var (
	signupName     string
	signupEmail    string
	signupPassword string
)

var placementCmd = &cobra.Command{
	Use:   "placement",
	Short: "Submit academic details for a pending signup (step two of registration)",
	Long: `Submit roll number, year, semester, grades and resume for the account created by signup.

Grades are given per semester as --grade N=VALUE, e.g. --grade 1=8.5 --grade 2=9.`,
	RunE: runPlacement,
}

var (
	placementName     string
	placementRoll     string
	placementYear     string
	placementSemester string
	placementGrades   []string
	placementResume   string
	placementPhoto    string
)

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name (required)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email (required)")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password (defaults to TALENTMATRIX_PASSWORD)")

	placementCmd.Flags().StringVar(&placementName, "name", "", "Full name (defaults to the name given at signup)")
	placementCmd.Flags().StringVar(&placementRoll, "roll", "", "Roll number (required)")
	placementCmd.Flags().StringVar(&placementYear, "year", "", "Year of study, 1-4 (required)")
	placementCmd.Flags().StringVar(&placementSemester, "semester", "", "Current semester (required)")
	placementCmd.Flags().StringArrayVar(&placementGrades, "grade", nil, "Semester grade as N=VALUE (repeatable)")
	placementCmd.Flags().StringVar(&placementResume, "resume", "", "Path to resume PDF (required)")
	placementCmd.Flags().StringVar(&placementPhoto, "photo", "", "Path to profile photo")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(placementCmd)
}

func runSignup(cmd *cobra.Command, _ []string) error {
	password := signupPassword
	if password == "" {
		password = os.Getenv("TALENTMATRIX_PASSWORD")
	}
	rec, err := app.store.Session.Signup(cmd.Context(), types.SignupRequest{
		FullName: signupName,
		Email:    signupEmail,
		Password: password,
	})
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Account created",
		fmt.Sprintf("Student id %s. Finish registration with `talentmatrix placement`.", orUnknown(string(rec.UserID()))))
	return nil
}

func runPlacement(cmd *cobra.Command, _ []string) error {
	grades, err := parseGradeFlags(placementGrades)
	if err != nil {
		return err
	}

	req := types.PlacementRequest{
		FullName:   placementName,
		RollNumber: placementRoll,
		Year:       placementYear,
		Semester:   placementSemester,
		Grades:     grades,
	}
	if placementResume != "" {
		resume, closeFn, err := openUpload(placementResume)
		if err != nil {
			return err
		}
		defer closeFn()
		req.Resume = resume
	}
	if placementPhoto != "" {
		photo, closeFn, err := openUpload(placementPhoto)
		if err != nil {
			return err
		}
		defer closeFn()
		req.Image = photo
	}

	if err := app.store.Session.CompletePlacement(cmd.Context(), req); err != nil {
		return err
	}
	app.printer.PrintMessage("Registration complete", "Log in with `talentmatrix login`.")
	return nil
}

// parseGradeFlags turns N=VALUE pairs into gpa_sem_N columns.
func parseGradeFlags(values []string) (map[string]string, error) {
	grades := make(map[string]string, len(values))
	for _, v := range values {
		sem, grade, ok := strings.Cut(v, "=")
		if !ok {
			return nil, &types.ValidationError{Field: "grade", Message: fmt.Sprintf("%q is not N=VALUE", v)}
		}
		n, err := parsing.SemesterNumber(sem)
		if err != nil {
			return nil, err
		}
		grades[parsing.GradeColumn(n)] = strings.TrimSpace(grade)
	}
	return grades, nil
}

// openUpload opens path for a multipart upload.
func openUpload(path string) (*types.FileUpload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upload := &types.FileUpload{Name: filepath.Base(path), ContentType: contentType, Body: f}
	return upload, func() { _ = f.Close() }, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

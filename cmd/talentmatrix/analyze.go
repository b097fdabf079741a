package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "AI career report matching the stored resume against openings",
	RunE:  runRecommend,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI analysis against target companies",
}

var analyzeCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List target companies",
	RunE:  runAnalyzeCompanies,
}

var analyzeCompanyCmd = &cobra.Command{
	Use:   "company NAME",
	Short: "Compare the stored resume with one target company",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyzeCompany,
}

func init() {
	analyzeCmd.AddCommand(analyzeCompaniesCmd)
	analyzeCmd.AddCommand(analyzeCompanyCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	report, err := app.store.Analysis.AnalyzeCareer(cmd.Context(), app.store.Profile.Get())
	if err != nil {
		return err
	}
	app.printer.PrintCareerReport(report)
	return nil
}

func runAnalyzeCompanies(cmd *cobra.Command, _ []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	companies, err := app.store.Analysis.Companies(cmd.Context())
	if err != nil {
		return err
	}
	app.printer.PrintCompanies(companies)
	return nil
}

func runAnalyzeCompany(cmd *cobra.Command, args []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	company := strings.Join(args, " ")
	analysis, err := app.store.Analysis.AnalyzeCompany(cmd.Context(), app.store.Profile.Get(), company)
	if err != nil {
		return err
	}
	app.printer.PrintCompanyAnalysis(company, analysis)
	return nil
}

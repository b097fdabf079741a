package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage skills",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills",
	RunE:  runSkillsList,
}

var skillsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsAdd,
}

var skillsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a skill by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsRm,
}

var (
	skillLevel string
	skillTags  string
)

func init() {
	skillsAddCmd.Flags().StringVar(&skillLevel, "level", string(types.ProficiencyBeginner), "Proficiency: beginner, intermediate or expert")
	skillsAddCmd.Flags().StringVar(&skillTags, "tags", "", "Comma-separated tags")

	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsAddCmd)
	skillsCmd.AddCommand(skillsRmCmd)
	rootCmd.AddCommand(skillsCmd)
}

func runSkillsList(cmd *cobra.Command, _ []string) error {
	if err := loadProfile(cmd); err != nil {
		return err
	}
	app.printer.PrintSkills(app.store.Profile.Get().Skills)
	return nil
}

func runSkillsAdd(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	level, err := parsing.NormalizeProficiency(skillLevel)
	if err != nil {
		return err
	}
	skill, err := app.store.Profile.AddSkill(cmd.Context(), types.SkillDraft{
		Name:        args[0],
		Proficiency: level,
		Tags:        skillTags,
	})
	if err != nil {
		return err
	}
	app.printer.PrintMessage("Skill added", fmt.Sprintf("%s (%s) #%s", skill.Name, skill.Proficiency, skill.ID))
	return nil
}

func runSkillsRm(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := app.store.Profile.DeleteSkill(cmd.Context(), types.ID(args[0])); err != nil {
		return err
	}
	app.printer.PrintMessage("Skill deleted", "#"+args[0])
	return nil
}

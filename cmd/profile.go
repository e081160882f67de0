package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your resume profile",
	Long:  "View and update the resume analysis used for match scoring",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the stored resume analysis",
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		analysis, err := application.Store.GetResumeAnalysis(cmd.Context(), userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching analysis: %v\n", err)
			os.Exit(1)
		}
		if analysis == nil {
			fmt.Println("No resume analysis on file. Use 'jobpilot profile set' to add one")
			return
		}

		fmt.Println(titleStyle.Render("Resume Profile"))
		fmt.Printf("%s %s\n", labelStyle.Render("Skills:"), strings.Join(analysis.Skills, ", "))
		if analysis.ExperienceYears != nil {
			fmt.Printf("%s %d years\n", labelStyle.Render("Experience:"), *analysis.ExperienceYears)
		} else {
			fmt.Printf("%s unknown\n", labelStyle.Render("Experience:"))
		}
		if analysis.Summary != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Summary:"), valueStyle.Render(analysis.Summary))
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Analyzed:"), analysis.AnalyzedAt.Format("Jan 2, 2006"))
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a resume analysis",
	Example: `  jobpilot profile set --skills "go,postgres,docker" --years 6
  jobpilot profile set --skills "python,sql" --summary "Data engineer"`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		userID, err := resolveUserID(cmd, application)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		skillsFlag, _ := cmd.Flags().GetString("skills")
		summary, _ := cmd.Flags().GetString("summary")

		skills := splitList(skillsFlag)
		if len(skills) == 0 {
			fmt.Println("At least one skill is required. Use --skills")
			return
		}

		analysis := &models.ResumeAnalysis{
			UserID:  userID,
			Skills:  skills,
			Summary: summary,
		}
		if cmd.Flags().Changed("years") {
			years, _ := cmd.Flags().GetInt("years")
			analysis.ExperienceYears = &years
		}

		if err := application.Store.SaveResumeAnalysis(cmd.Context(), analysis); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving analysis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Resume profile saved")
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileSetCmd.Flags().String("skills", "", "Comma separated skills (required)")
	profileSetCmd.Flags().Int("years", 0, "Years of experience")
	profileSetCmd.Flags().String("summary", "", "Short professional summary")
}

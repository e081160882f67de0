package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/pkg/models"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage stored job postings",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently stored job postings",
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		days, _ := cmd.Flags().GetInt("days")

		since := time.Now().UTC().AddDate(0, 0, -days)
		jobs, err := application.Store.ListRecentJobPostings(cmd.Context(), since)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing jobs: %v\n", err)
			os.Exit(1)
		}

		if len(jobs) == 0 {
			fmt.Printf("No jobs stored in the last %d day(s). Fetch some with 'jobpilot search'\n", days)
			return
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Jobs (%d)", len(jobs))))
		for _, job := range jobs {
			fmt.Printf("%s  %s at %s\n", valueStyle.Render(job.ID), labelStyle.Render(job.Title), job.Company)
		}
	},
}

var jobShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		job, err := application.Store.GetJobPosting(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching job: %v\n", err)
			os.Exit(1)
		}
		if job == nil {
			fmt.Printf("No job with ID '%s'\n", args[0])
			return
		}

		fmt.Println(titleStyle.Render(job.Title))
		fmt.Printf("%s %s\n", labelStyle.Render("Company:"), job.Company)
		if job.Location != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Location:"), job.Location)
		}
		if job.WorkType != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Work Type:"), job.WorkType)
		}
		if salary := job.SalaryRangeLabel(); salary != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Salary:"), salary)
		}
		if len(job.RequiredSkills) > 0 {
			fmt.Printf("%s %s\n", labelStyle.Render("Skills:"), strings.Join(job.RequiredSkills, ", "))
		}
		if job.ApplyURL != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Apply:"), job.ApplyURL)
		}
		if job.Description != "" {
			fmt.Printf("\n%s\n", job.Description)
		}
	},
}

var jobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job posting manually",
	Example: `  jobpilot job add --title "Backend Engineer" --company "Acme" \
    --skills "go,postgres" --work-type remote --apply-url https://acme.example.com/jobs/1`,
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())

		title, _ := cmd.Flags().GetString("title")
		company, _ := cmd.Flags().GetString("company")
		if title == "" || company == "" {
			fmt.Println("Both --title and --company are required")
			return
		}

		location, _ := cmd.Flags().GetString("location")
		workType, _ := cmd.Flags().GetString("work-type")
		level, _ := cmd.Flags().GetString("level")
		applyURL, _ := cmd.Flags().GetString("apply-url")
		description, _ := cmd.Flags().GetString("description")
		skillsFlag, _ := cmd.Flags().GetString("skills")

		job := &models.JobPosting{
			Source:          "manual",
			Title:           title,
			Company:         company,
			Location:        location,
			WorkType:        workType,
			ExperienceLevel: level,
			ApplyURL:        applyURL,
			Description:     description,
			RequiredSkills:  splitList(skillsFlag),
		}
		if min, _ := cmd.Flags().GetInt("salary-min"); min > 0 {
			job.SalaryMin = &min
		}
		if max, _ := cmd.Flags().GetInt("salary-max"); max > 0 {
			job.SalaryMax = &max
		}

		if err := application.Store.CreateJobPosting(cmd.Context(), job); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving job: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Job saved: %s\n", job.ID)
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application := app.GetAppFromContext(cmd.Context())
		if err := application.Store.DeleteJobPosting(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting job: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Job deleted")
	},
}

// splitList parses a comma separated flag value into trimmed entries
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobAddCmd)
	jobCmd.AddCommand(jobDeleteCmd)

	jobListCmd.Flags().Int("days", 7, "How many days back to list")

	jobAddCmd.Flags().String("title", "", "Job title (required)")
	jobAddCmd.Flags().String("company", "", "Company name (required)")
	jobAddCmd.Flags().String("location", "", "Job location")
	jobAddCmd.Flags().String("work-type", "", "remote, hybrid or onsite")
	jobAddCmd.Flags().String("level", "", "entry, mid, senior, lead or executive")
	jobAddCmd.Flags().String("apply-url", "", "External apply URL")
	jobAddCmd.Flags().String("description", "", "Job description")
	jobAddCmd.Flags().String("skills", "", "Comma separated required skills")
	jobAddCmd.Flags().Int("salary-min", 0, "Salary range lower bound")
	jobAddCmd.Flags().Int("salary-max", 0, "Salary range upper bound")
}

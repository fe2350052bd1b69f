package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kfreiman/careercoach/internal/career"
	"github.com/kfreiman/careercoach/internal/config"
	"github.com/kfreiman/careercoach/internal/llm"
)

var (
	careerSkills []string
	careerRole   string
	careerInfo   string
	suggestRole  string
)

// careerCmd asks the advisor a single question and prints the answer
var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Ask for career advice from the command line",
	Long: `Ask for career advice without starting the server.

Exactly one of --skills, --role, --info or --suggest selects the question:
  --skills go,sql     suggest career paths for a skill set
  --role "Nurse"      list what a career requires
  --info "Pilot"      print structured career info as JSON
  --suggest "Chef"    print resume suggestions for a role as JSON`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := loadLogger()

		cfg, err := config.Load()
		if err != nil {
			logger.ErrorContext(ctx, "failed to load config", "error", err)
			os.Exit(1)
		}
		gen, err := llm.New(ctx, cfg.LLM())
		if err != nil {
			logger.ErrorContext(ctx, "failed to create text generator", "error", err)
			os.Exit(1)
		}
		advisor, err := career.NewAdvisor(career.AdvisorConfig{
			Generator: gen,
			Timeout:   cfg.GenerationTimeout,
			Logger:    logger,
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to create advisor", "error", err)
			os.Exit(1)
		}

		out, err := askAdvisor(ctx, advisor)
		if err != nil {
			logger.ErrorContext(ctx, "career request failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

// askAdvisor runs the question selected by the flags
func askAdvisor(ctx context.Context, advisor *career.Advisor) (string, error) {
	switch {
	case len(careerSkills) > 0:
		return advisor.Advise(ctx, career.Request{Type: career.TypeSkillsToCareer, Skills: careerSkills})
	case strings.TrimSpace(careerRole) != "":
		return advisor.Advise(ctx, career.Request{Type: career.TypeCareerToSkills, UserInput: careerRole})
	case strings.TrimSpace(careerInfo) != "":
		info, err := advisor.Info(ctx, careerInfo)
		if err != nil {
			return "", err
		}
		return indentJSON(info)
	case strings.TrimSpace(suggestRole) != "":
		s, err := advisor.Suggest(ctx, suggestRole)
		if err != nil {
			return "", err
		}
		return indentJSON(s)
	default:
		return "", fmt.Errorf("one of --skills, --role, --info or --suggest is required")
	}
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	careerCmd.Flags().StringSliceVar(&careerSkills, "skills", nil, "Comma-separated skills to map to career paths")
	careerCmd.Flags().StringVar(&careerRole, "role", "", "Career to describe")
	careerCmd.Flags().StringVar(&careerInfo, "info", "", "Career to return structured info for")
	careerCmd.Flags().StringVar(&suggestRole, "suggest", "", "Role to suggest resume material for")
	careerCmd.MarkFlagsMutuallyExclusive("skills", "role", "info", "suggest")

	rootCmd.AddCommand(careerCmd)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/observability"
	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/schemas"
	"github.com/jonathan/talentflow/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate files against a job file",
	Long: `Validates a job and one or more candidate JSON documents against their schemas,
scores every candidate and prints the results best first.

Weights override the configured table, e.g.
  --weights skills_match=0.5,experience_relevance=0.25,education_match=0.15,overall_fit=0.1`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

var (
	scoreJob        string
	scoreCandidates []string
	scoreWeights    string
	scoreTop        int
	scoreVerbose    bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Path to job JSON file (required)")
	scoreCmd.Flags().StringArrayVarP(&scoreCandidates, "candidate", "c", nil, "Path to candidate JSON file (repeatable, required)")
	scoreCmd.Flags().StringVar(&scoreWeights, "weights", "", "Comma separated name=weight pairs overriding the configured weights")
	scoreCmd.Flags().IntVar(&scoreTop, "top", ranking.DefaultTopN, "Number of top candidates in the summary")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print formatted boxes instead of JSON")

	if err := scoreCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

// ScoredResult is one candidate's line in the score output.
type ScoredResult struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	*ranking.Result
}

// ScoreOutput is the JSON document printed by the score command.
type ScoreOutput struct {
	JobID    uuid.UUID         `json:"job_id"`
	Results  []ScoredResult    `json:"results"`
	Failures []ranking.Failure `json:"failures"`
	Summary  ranking.Summary   `json:"summary"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	job, err := readJob(scoreJob)
	if err != nil {
		return err
	}
	candidates := make([]*types.Candidate, 0, len(scoreCandidates))
	for _, path := range scoreCandidates {
		c, err := readCandidate(path)
		if err != nil {
			return err
		}
		candidates = append(candidates, c)
	}

	cfg := appConfig.RankingConfig()
	if scoreWeights != "" {
		if cfg.Weights, err = parseWeights(scoreWeights, cfg.Weights); err != nil {
			return err
		}
	}
	engine, err := ranking.NewEngine(cfg, ranking.WithNormalizer(ranking.DefaultNormalizer{Clock: time.Now}))
	if err != nil {
		return fmt.Errorf("invalid ranking configuration: %w", err)
	}

	batch, err := engine.Rank(cmd.Context(), job, candidates, appConfig.Ranking.Parallelism)
	if err != nil {
		return err
	}
	for _, f := range batch.Failures {
		appLog.Warn("candidate not scored", zap.String("name", f.Name), zap.String("reason", f.Reason))
	}

	scored := batch.Candidates()
	flat := make([]types.Candidate, len(scored))
	for i, c := range scored {
		flat[i] = *c
	}
	summary := ranking.Summarize(flat, cfg.Thresholds, scoreTop)

	out := cmd.OutOrStdout()
	if scoreVerbose {
		printVerbose(out, job, batch, &summary)
	} else if err := printJSON(out, job, batch, summary); err != nil {
		return err
	}

	if len(batch.Failures) > 0 {
		return fmt.Errorf("%d of %d candidates could not be scored", len(batch.Failures), len(candidates))
	}
	return nil
}

func printJSON(out io.Writer, job *types.Job, batch *ranking.Batch, summary ranking.Summary) error {
	doc := ScoreOutput{
		JobID:    job.ID,
		Results:  make([]ScoredResult, 0, len(batch.Ranked)),
		Failures: append([]ranking.Failure{}, batch.Failures...),
		Summary:  summary,
	}
	for i, r := range batch.Ranked {
		doc.Results = append(doc.Results, ScoredResult{Rank: i + 1, Name: r.Candidate.Name, Result: r.Result})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write score output: %w", err)
	}
	return nil
}

func printVerbose(out io.Writer, job *types.Job, batch *ranking.Batch, summary *ranking.Summary) {
	p := observability.NewPrinter(out)
	p.PrintJob(job)
	for _, r := range batch.Ranked {
		p.PrintScore(r.Candidate.Name, r.Result)
		p.PrintDiagnostics(r.Result.Details.Diagnostics)
	}
	p.PrintSummary(summary)
}

func readJob(path string) (*types.Job, error) {
	data, err := readDocument(path, "job", schemas.ValidateJob)
	if err != nil {
		return nil, err
	}
	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job JSON: %w", err)
	}
	return &job, nil
}

func readCandidate(path string) (*types.Candidate, error) {
	data, err := readDocument(path, "candidate", schemas.ValidateCandidate)
	if err != nil {
		return nil, err
	}
	var c types.Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate JSON: %w", err)
	}
	return &c, nil
}

func readDocument(path, kind string, validate func([]byte) error) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", kind, path)
		}
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	if err := validate(data); err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, path, err)
	}
	return data, nil
}

// parseWeights applies "name=value" pairs on top of base.
func parseWeights(raw string, base ranking.Weights) (ranking.Weights, error) {
	fields := map[string]*float64{
		types.SubScoreSkillsMatch:         &base.SkillsMatch,
		types.SubScoreExperienceRelevance: &base.ExperienceRelevance,
		types.SubScoreEducationMatch:      &base.EducationMatch,
		types.SubScoreOverallFit:          &base.OverallFit,
	}
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return base, fmt.Errorf("weight %q: expected name=value", pair)
		}
		target, known := fields[strings.TrimSpace(name)]
		if !known {
			return base, fmt.Errorf("unknown weight %q", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return base, fmt.Errorf("weight %s: %w", name, err)
		}
		*target = v
	}
	return base, nil
}

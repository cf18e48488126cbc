package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-cli/internal/config"
	"github.com/sells-group/aeo-cli/internal/model"
	"github.com/sells-group/aeo-cli/internal/resilience"
	"github.com/sells-group/aeo-cli/internal/scorer"
	"github.com/sells-group/aeo-cli/pkg/llm"
)

// TotalSteps is the step count shown in progress: five stages plus scoring.
const TotalSteps = 6

// Config tunes a Pipeline. Zero values fall back to the defaults.
type Config struct {
	MaxContentChars      int
	MaxAttempts          int
	RetryBackoff         time.Duration
	RunTimeout           time.Duration
	SyntheticCompetitors int
}

// DefaultConfig returns the stock run settings.
func DefaultConfig() Config {
	return Config{
		MaxContentChars:      MaxContentChars,
		MaxAttempts:          DefaultMaxAttempts,
		RetryBackoff:         DefaultRetryBackoff,
		SyntheticCompetitors: DefaultSyntheticCompetitors,
	}
}

// ConfigFromApp maps the pipeline section of the app config.
func ConfigFromApp(c config.PipelineConfig) Config {
	return Config{
		MaxContentChars:      c.MaxContentChars,
		MaxAttempts:          c.MaxAttempts,
		RetryBackoff:         time.Duration(c.RetryBackoffMs) * time.Millisecond,
		RunTimeout:           time.Duration(c.RunTimeoutSecs) * time.Second,
		SyntheticCompetitors: c.SyntheticCompetitors,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = d.MaxContentChars
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = d.RetryBackoff
	}
	if c.SyntheticCompetitors <= 0 {
		c.SyntheticCompetitors = d.SyntheticCompetitors
	}
	return c
}

// Pipeline runs the fixed five-stage analysis chain. It holds no per-run
// state, so one Pipeline serves concurrent runs.
type Pipeline struct {
	gateway llm.Gateway
	cfg     Config
}

// New creates a Pipeline that sends every stage through gw.
func New(gw llm.Gateway, cfg Config) *Pipeline {
	return &Pipeline{gateway: gw, cfg: cfg.withDefaults()}
}

// Config returns the effective settings.
func (p *Pipeline) Config() Config { return p.cfg }

// Stages lists the five analysis stages in execution order.
func Stages() []model.StageInfo {
	return []model.StageInfo{
		AnswerSimulator.Info,
		VisibilityJudge.Info,
		GapAnalyzer.Info,
		FixPackGenerator.Info,
		QualityReviewer.Info,
	}
}

func (p *Pipeline) retryPolicy() resilience.RetryConfig {
	return resilience.LinearRetryConfig(p.cfg.MaxAttempts, p.cfg.RetryBackoff)
}

// Run validates req and executes every stage in order. It returns a
// *model.ValidationError before any stage runs, or a *StageError when a
// stage exhausts its retries; no partial report is produced.
func (p *Pipeline) Run(ctx context.Context, req model.AnalyzeRequest, runID string, obs Observer) (*model.AnalyzeReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	log := zap.L().With(zap.String("run_id", runID), zap.String("engine_mode", string(req.EngineMode)))
	log.Info("pipeline: starting run", zap.Int("competitors", len(req.Competitors)))
	start := time.Now()

	var agents []model.AgentMetadata
	thoughts := func(stageID string) func(string) {
		return func(text string) { obs.StageThought(stageID, text) }
	}
	trackStage := func(info model.StageInfo, step int, fn func() (model.AgentMetadata, error)) error {
		obs.StageStart(info, step, TotalSteps)
		stageStart := time.Now()
		meta, err := fn()
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", info.ID),
				zap.Int64("duration_ms", time.Since(stageStart).Milliseconds()),
				zap.Error(err),
			)
			return err
		}
		obs.StageComplete(info.ID, time.Duration(meta.Duration)*time.Millisecond)
		agents = append(agents, meta)
		log.Info("pipeline: stage complete",
			zap.String("stage", info.ID),
			zap.Int64("duration_ms", meta.Duration),
			zap.Int("attempt", meta.Attempts),
		)
		return nil
	}

	// Step 0: synthetic competitors.
	if req.GenerateSyntheticCompetitors && len(req.Competitors) == 0 {
		generated, err := p.generateCompetitors(ctx, req, thoughts(StagePrep))
		if err != nil {
			log.Error("pipeline: synthetic generation failed", zap.Error(err))
			return nil, err
		}
		req.Competitors = generated
	}

	sources := normalizeSources(req, p.cfg.MaxContentChars)

	var (
		a1 *Execution[model.AnswerSimulation]
		a2 *Execution[model.VisibilityJudgment]
		a3 *Execution[model.GapAnalysis]
		a4 *Execution[model.FixPackOutput]
		a5 *Execution[model.QualityReviewOutput]
	)

	err := trackStage(AnswerSimulator.Info, 1, func() (model.AgentMetadata, error) {
		var err error
		a1, err = ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(), AnswerSimulator,
			SimulatorInput{Sources: sources, Query: req.Query, EngineMode: req.EngineMode},
			thoughts(StageAnswerSimulator))
		if err != nil {
			return model.AgentMetadata{}, err
		}
		return a1.Metadata(), nil
	})
	if err != nil {
		return nil, err
	}

	err = trackStage(VisibilityJudge.Info, 2, func() (model.AgentMetadata, error) {
		var err error
		a2, err = ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(), VisibilityJudge,
			JudgeInput{Answer: a1.Output, Sources: sources},
			thoughts(StageVisibilityJudge))
		if err != nil {
			return model.AgentMetadata{}, err
		}
		return a2.Metadata(), nil
	})
	if err != nil {
		return nil, err
	}

	err = trackStage(GapAnalyzer.Info, 3, func() (model.AgentMetadata, error) {
		var err error
		a3, err = ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(), GapAnalyzer,
			GapInput{Query: req.Query, Answer: a1.Output, Visibility: a2.Output, Sources: sources},
			thoughts(StageGapAnalyzer))
		if err != nil {
			return model.AgentMetadata{}, err
		}
		return a3.Metadata(), nil
	})
	if err != nil {
		return nil, err
	}

	err = trackStage(FixPackGenerator.Info, 4, func() (model.AgentMetadata, error) {
		var err error
		a4, err = ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(), FixPackGenerator,
			FixPackInput{Query: req.Query, TargetContent: req.Target.Content, Gaps: a3.Output},
			thoughts(StageFixPackGenerator))
		if err != nil {
			return model.AgentMetadata{}, err
		}
		return a4.Metadata(), nil
	})
	if err != nil {
		return nil, err
	}

	obs.StageThought(StageScoring, "Computing deterministic AEO score from 7 dimensions...")
	score := scorer.ComputeAEO(a2.Output, a3.Output)
	obs.StageThought(StageScoring, fmt.Sprintf("AEO Score: %d/100", score.AEOTotal))
	log.Debug("pipeline: score computed", zap.Int("aeo_total", score.AEOTotal))

	err = trackStage(QualityReviewer.Info, 5, func() (model.AgentMetadata, error) {
		var err error
		a5, err = ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(), QualityReviewer,
			ReviewInput{
				Query:      req.Query,
				Brand:      req.Target.Brand,
				Answer:     a1.Output,
				Visibility: a2.Output,
				Gaps:       a3.Output,
				FixPack:    a4.Output,
				Score:      score,
			},
			thoughts(StageQualityReviewer))
		if err != nil {
			return model.AgentMetadata{}, err
		}
		return a5.Metadata(), nil
	})
	if err != nil {
		return nil, err
	}

	total := time.Since(start)
	log.Info("pipeline: run complete",
		zap.Int64("duration_ms", total.Milliseconds()),
		zap.Int("aeo_total", score.AEOTotal),
	)

	return &model.AnalyzeReport{
		Meta: model.ReportMeta{
			RequestID:     runID,
			EngineMode:    req.EngineMode,
			Model:         p.gateway.Model(),
			TotalDuration: total.Milliseconds(),
			Agents:        agents,
		},
		SimulatedAnswer: a1.Output.Answer,
		Visibility: model.Visibility{
			IsCited:          a2.Output.IsCited,
			ProminenceScore:  a2.Output.ProminenceScore,
			CitationStrength: a2.Output.CitationStrength,
			Reasons:          a2.Output.Reasons,
		},
		Gaps:          a3.Output.Gaps,
		FixPack:       a4.Output.FixPack,
		Score:         score,
		QualityReview: a5.Output.QualityReview,
	}, nil
}

func (p *Pipeline) generateCompetitors(ctx context.Context, req model.AnalyzeRequest, onThought func(string)) ([]model.BrandContent, error) {
	onThought("No competitors provided, generating synthetic competitors...")
	exec, err := ExecuteWithRetry(ctx, p.gateway, p.retryPolicy(),
		syntheticContract(p.cfg.SyntheticCompetitors),
		SyntheticInput{Query: req.Query, TargetBrand: req.Target.Brand},
		onThought)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: synthetic competitors")
	}
	competitors := exec.Output.Competitors
	onThought(fmt.Sprintf("Generated %d synthetic competitors", len(competitors)))
	return competitors, nil
}

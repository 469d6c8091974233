// Command formbaseline is the thin CLI entry point dispatching train
// and evaluate. CLI parsing itself is out of scope for this system;
// this stays a minimal flag-based dispatcher in the teacher's own
// flag-based CLI idiom, not a framework. Both subcommands build
// the real trainer/evaluator pipeline, but cannot run end to end here:
// analyticalStoreTrainingSource's queries return "not wired" errors
// because parquet-go's writer-only API has no reader path in this
// codebase (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"formbaseline/analyticalstore"
	"formbaseline/config"
	"formbaseline/dateutil"
	"formbaseline/domain"
	"formbaseline/evaluator"
	"formbaseline/logging"
	"formbaseline/modelstore"
	"formbaseline/trainer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "train":
		runTrain(os.Args[2:])
	case "evaluate":
		runEvaluate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: formbaseline <train|evaluate> [flags]\n")
}

func runTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	userID := fs.String("user", "default", "User identifier")
	condition := fs.String("condition", "flat_road", "Condition group")
	endDate := fs.String("end-date", "", "End date (YYYY-MM-DD); defaults to today")
	windowMonths := fs.Int("window-months", trainer.DefaultWindowMonths, "Training window in months")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "formbaseline train: %v\n", err)
		os.Exit(1)
	}

	end := time.Now()
	if *endDate != "" {
		parsed, err := time.Parse("2006-01-02", *endDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "formbaseline train: invalid --end-date: %v\n", err)
			os.Exit(1)
		}
		end = parsed
	}

	store := modelstore.New(cfg.DataDir)
	analytical := analyticalstore.NewParquetStore(cfg.DataDir + "/database")
	source := trainer.DataSource(&analyticalStoreTrainingSource{analytical: analytical})

	tr := trainer.New(source, store)
	result, err := tr.Train(*userID, *condition, end, *windowMonths)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("training failed")
		os.Exit(1)
	}

	fmt.Printf("trained %s/%s: period %s..%s\n", *userID, *condition,
		result.PeriodStart.Format("2006-01-02"), result.PeriodEnd.Format("2006-01-02"))
	for _, m := range result.Metrics {
		if m.Err != nil {
			fmt.Printf("  %s: FAILED (%v)\n", m.Metric, m.Err)
			continue
		}
		fmt.Printf("  %s: n=%d rmse=%.4f\n", m.Metric, m.NSamples, m.RMSE)
	}
	if result.PowerTrained {
		fmt.Printf("  power: trained\n")
	} else if result.PowerErr != nil {
		fmt.Printf("  power: skipped (%v)\n", result.PowerErr)
	}
}

func runEvaluate(args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	userID := fs.String("user", "default", "User identifier")
	condition := fs.String("condition", "flat_road", "Condition group")
	activityID := fs.Int64("activity-id", 0, "Activity id to evaluate")
	activityDate := fs.String("activity-date", "", "Activity date (YYYY-MM-DD)")
	mode := fs.String("training-mode", string(domain.ModeLowModerate), "Training mode (interval_sprint|tempo_threshold|low_moderate)")
	fs.Parse(args)

	if *activityID == 0 || *activityDate == "" {
		fmt.Fprintf(os.Stderr, "formbaseline evaluate: --activity-id and --activity-date are required\n")
		os.Exit(2)
	}

	date, err := time.Parse("2006-01-02", *activityDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "formbaseline evaluate: invalid --activity-date: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "formbaseline evaluate: %v\n", err)
		os.Exit(1)
	}

	store := modelstore.New(cfg.DataDir)
	analytical := analyticalstore.NewParquetStore(cfg.DataDir + "/database")
	source := &analyticalStoreTrainingSource{analytical: analytical}
	tr := trainer.New(trainer.DataSource(source), store)

	upsert := func(eval domain.Evaluation) error {
		return analytical.UpsertByKey(analyticalstore.TableFormEvaluations, analyticalstore.Key{"activity_id": eval.ActivityID}, eval)
	}
	ev := evaluator.New(store, source, tr, upsert)

	result, err := ev.Evaluate(*userID, *condition, *activityID, date, domain.TrainingMode(*mode))
	if err != nil {
		logging.Logger().Error().Err(err).Msg("evaluation failed")
		os.Exit(1)
	}

	fmt.Printf("evaluated activity %d for %s/%s: overall=%.1f (%s) integrated=%.1f\n",
		*activityID, *userID, *condition, result.OverallScore, result.OverallStar, result.IntegratedScore)
}

// analyticalStoreTrainingSource adapts analyticalstore.ParquetStore's
// write-through tables into trainer.DataSource's read queries. A real
// deployment backs this with a query-capable analytical store;
// parquet-go's writer-only API in this codebase means a production
// wiring would read the table back via parquet-go's reader package,
// omitted here since cmd/formbaseline is a thin illustrative entry
// point, not the system's query engine.
type analyticalStoreTrainingSource struct {
	analytical *analyticalstore.ParquetStore
}

func (s *analyticalStoreTrainingSource) FetchTrainingRows(userID, conditionGroup string, window dateutil.Window) ([]trainer.TrainingRow, error) {
	return nil, fmt.Errorf("formbaseline: analytical-store-backed training row queries are not wired in this CLI; see DESIGN.md")
}

func (s *analyticalStoreTrainingSource) FetchPowerRows(userID, conditionGroup string, window dateutil.Window) ([]trainer.PowerRow, error) {
	return nil, fmt.Errorf("formbaseline: analytical-store-backed power row queries are not wired in this CLI; see DESIGN.md")
}

// GetActivity implements evaluator.ActivitySource on top of the same
// write-only ParquetStore, for the same documented reason (see
// FetchTrainingRows above): a real deployment reads the activity and
// its splits back through parquet-go's reader package.
func (s *analyticalStoreTrainingSource) GetActivity(activityID int64) (domain.Activity, error) {
	return domain.Activity{}, fmt.Errorf("formbaseline: analytical-store-backed activity reads are not wired in this CLI; see DESIGN.md")
}

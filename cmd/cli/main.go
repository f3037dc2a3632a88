package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/limaJavier/lesson-timetabling/pkg/config"
	appErrors "github.com/limaJavier/lesson-timetabling/pkg/errors"
	"github.com/limaJavier/lesson-timetabling/pkg/logger"
	"github.com/limaJavier/lesson-timetabling/pkg/model"
	"github.com/limaJavier/lesson-timetabling/pkg/sat"
)

const (
	exitSolved             = 10
	exitNoSolution         = 20
	exitVerificationFailed = 15
)

var (
	timetablers = map[string]func(sat.Solver, time.Duration, *zap.Logger) model.Timetabler{
		"embedded":  model.NewEmbeddedRoomTimetabler,
		"postponed": model.NewIsolatedRoomTimetabler,
	}
	solvers = map[string]func(config.SolversConfig) sat.Solver{
		"gini":      func(config.SolversConfig) sat.Solver { return sat.NewGiniSolver() },
		"gophersat": func(config.SolversConfig) sat.Solver { return sat.NewGophersatSolver() },
		"kissat":    func(paths config.SolversConfig) sat.Solver { return sat.NewKissatSolver(paths.KissatPath) },
		"cadical":   func(paths config.SolversConfig) sat.Solver { return sat.NewCadicalSolver(paths.CadicalPath) },
		"minisat":   func(paths config.SolversConfig) sat.Solver { return sat.NewMinisatSolver(paths.MinisatPath) },
	}
)

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to an optional JSON config file (solver executable paths and defaults)")
	strategyPtr := flag.String("strategy", "", `Strategy to build the timetable. Allowed values are:
- "embedded" (rooms are chosen by the engine together with the timeslots) and
- "postponed" (rooms are assigned after the timeslots are found), where "embedded" is the default`)
	enginePtr := flag.String("engine", "", "Solving engine to use. Allowed values are: \"gini\", \"gophersat\", \"kissat\", \"cadical\", \"minisat\", where \"gini\" is the default")
	timeoutPtr := flag.Duration("timeout", 0, "Time budget of the solving engine, where 10s is the default; a request's config.solverTimeLimitSec takes precedence")
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flag.Parse()

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	strategy := lo.Ternary(*strategyPtr != "", strings.ToLower(*strategyPtr), cfg.Strategy)
	engine := lo.Ternary(*enginePtr != "", strings.ToLower(*enginePtr), cfg.Engine)
	timeLimit := lo.Ternary(*timeoutPtr > 0, *timeoutPtr, cfg.TimeLimit)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if _, ok := timetablers[strategy]; !ok {
		log.Fatalf("%v is not a valid strategy: %v", strategy, sortedKeys(timetablers))
	} else if _, ok := solvers[engine]; !ok {
		log.Fatalf("%v is not a valid engine: %v", engine, sortedKeys(solvers))
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}

	// Extract input
	input, err := model.InputFromJson(filePath)
	if err != nil {
		reportFailure(appLogger, "cannot parse input file", err, outFile)
		exit(appLogger, 1)
	}

	// Initialize engines
	timetabler := timetablers[strategy](solvers[engine](cfg.Solvers), timeLimit, appLogger)

	// Build timetable
	output, err := timetabler.Solve(context.Background(), input)
	if err != nil {
		reportFailure(appLogger, "an error occurred during timetable construction", err, outFile)
		exit(appLogger, 1)
	}

	writeOutput(output, outFile)
	if len(output.Lessons) == 0 && slices.Contains(output.Notes, model.NoFeasibleSolutionNote) {
		exit(appLogger, exitNoSolution)
	}

	// Verify timetable correctness
	if !timetabler.Verify(output, input) {
		appLogger.Error("timetable verification failed")
		exit(appLogger, exitVerificationFailed)
	}
	exit(appLogger, exitSolved)
}

func exit(appLogger *zap.Logger, code int) {
	_ = appLogger.Sync()
	os.Exit(code)
}

// reportFailure logs err and writes it as a typed JSON error
func reportFailure(appLogger *zap.Logger, message string, err error, outFile string) *appErrors.Error {
	appErr := appErrors.FromError(err)
	appLogger.Error(message, zap.String("code", appErr.Code), zap.Error(err))
	writeOutput(appErr, outFile)
	return appErr
}

func writeOutput(value any, outFile string) {
	outputJson, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}
}

func sortedKeys[V any](values map[string]V) []string {
	keys := lo.Keys(values)
	slices.Sort(keys)
	return keys
}

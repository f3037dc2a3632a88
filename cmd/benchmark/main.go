package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/lesson-timetabling/pkg/model"
)

const (
	exitSolved     = 10
	exitNoSolution = 20
)

var (
	strategies = []string{"embedded", "postponed"}
	engines    = []string{"gini", "gophersat", "kissat", "cadical", "minisat"}
)

type TestMetadata struct {
	Name        string
	Teachers    int
	Groups      int
	Rooms       int
	Timeslots   int
	Occurrences int
}

type BenchmarkResult struct {
	Engine    string
	Strategy  string
	Test      TestMetadata
	Duration  int64
	Memory    float32
	Cpu       int64
	Status    string
	Objective string
}

func main() {
	executablePtr := flag.String("bin", "../../bin/timetable", "Path to the timetable executable")
	directoryPtr := flag.String("dir", "../../pkg/model/testdata/", "Directory holding the input files")
	timeoutPtr := flag.String("timeout", "10s", "Time budget passed to every run")
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file with the results")
	flag.Parse()

	tests := getTests(*directoryPtr)
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies)*len(engines))

	for _, test := range tests {
		for _, strategy := range strategies {
			for _, engine := range engines {
				if _, err := exec.LookPath(engine); err != nil && !inProcess(engine) {
					fmt.Printf("Skipping engine \"%v\": not installed\n", engine)
					continue
				}
				fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\" and engine \"%v\"\n", test.Name, strategy, engine)

				result := measure(*executablePtr, strategy, engine, *timeoutPtr, test.Name)
				result.Test = test
				results = append(results, result)
			}
		}
	}

	toCsv(results, *outPtr)
}

func inProcess(engine string) bool {
	return engine == "gini" || engine == "gophersat"
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		filename := filepath.Join(directory, file.Name())
		input, err := model.InputFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:      filename,
			Teachers:  len(input.Teachers),
			Groups:    len(input.Groups),
			Rooms:     len(input.Rooms),
			Timeslots: len(input.Timeslots),
			Occurrences: lo.SumBy(input.Assignments, func(assignment model.Assignment) int {
				return assignment.RequiredPeriods
			}),
		})
	}

	return tests
}

func measure(executable, strategy, engine, timeout, testFile string) BenchmarkResult {
	cmd := exec.Command("/usr/bin/time", "-v", executable, "-strategy", strategy, "-engine", engine, "-timeout", timeout, "-file", testFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	_ = cmd.Run()
	if cmd.ProcessState == nil || (cmd.ProcessState.ExitCode() != exitSolved && cmd.ProcessState.ExitCode() != exitNoSolution) {
		log.Fatalf("an error occurred during the execution \"timetable\" at test \"%v\" using strategy \"%v\" and engine \"%v\": %v\n", testFile, strategy, engine, stdErr.String())
	}

	status, objective := parseOutput(stdOut.Bytes())

	report, err := parseTimeReport(stdErr.String())
	if err != nil {
		log.Fatalf("cannot read the time report of test \"%v\": %v", testFile, err)
	}

	return BenchmarkResult{
		Engine:    engine,
		Strategy:  strategy,
		Duration:  report.durationMs,
		Memory:    report.memoryMb,
		Cpu:       report.cpuPercent,
		Status:    status,
		Objective: objective,
	}
}

// parseOutput extracts the engine status and the objective score of a solve output
func parseOutput(output []byte) (status string, objective string) {
	var solveOutput model.SolveOutput
	if err := json.Unmarshal(output, &solveOutput); err != nil {
		log.Fatalf("cannot parse solve output: %v", err)
	}

	status = "UNKNOWN"
	if note, ok := lo.Find(solveOutput.Notes, func(note string) bool { return strings.HasPrefix(note, "status=") }); ok {
		status = strings.TrimPrefix(note, "status=")
	}
	if solveOutput.ObjectiveScore != nil {
		objective = strconv.Itoa(*solveOutput.ObjectiveScore)
	}
	return status, objective
}

func toCsv(results []BenchmarkResult, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Engine", "Strategy", "Test", "Teachers", "Groups", "Rooms", "Timeslots", "Occurrences", "Duration(ms)", "Memory(MB)", "CPU(%)", "Status", "Objective"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Engine,
			result.Strategy,
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Teachers),
			fmt.Sprintf("%d", result.Test.Groups),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.Timeslots),
			fmt.Sprintf("%d", result.Test.Occurrences),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.Cpu),
			result.Status,
			result.Objective,
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

// timeReport holds the measures of a "/usr/bin/time -v" report
type timeReport struct {
	durationMs int64
	memoryMb   float32
	cpuPercent int64
}

// parseTimeReport reads the wall clock time, the peak resident memory and the CPU share of a "/usr/bin/time -v" report.
// Every line is "<label>: <value>"; labels may hold colons but never a colon followed by a space
func parseTimeReport(report string) (timeReport, error) {
	var result timeReport
	found := 0
	for _, line := range strings.Split(report, "\n") {
		label, value, ok := strings.Cut(strings.TrimSpace(line), ": ")
		if !ok {
			continue
		}
		label = strings.ToLower(label)

		var err error
		switch {
		case strings.Contains(label, "wall clock"):
			result.durationMs, err = parseElapsed(value)
		case strings.Contains(label, "maximum resident set size"):
			var kilobytes float64
			kilobytes, err = strconv.ParseFloat(value, 32)
			result.memoryMb = float32(kilobytes) / 1024
		case strings.Contains(label, "percent of cpu"):
			result.cpuPercent, err = strconv.ParseInt(strings.TrimSuffix(value, "%"), 10, 64)
		default:
			continue
		}
		if err != nil {
			return timeReport{}, fmt.Errorf("invalid %q: %w", label, err)
		}
		found++
	}

	if found < 3 {
		return timeReport{}, fmt.Errorf("incomplete time report: %d of 3 measures found", found)
	}
	return result, nil
}

// parseElapsed converts "h:mm:ss.cc" or "m:ss.cc" into milliseconds
func parseElapsed(value string) (int64, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unexpected duration format: %v", value)
	}

	units := []string{"s", "m", "h"}
	var builder strings.Builder
	for i, part := range parts {
		builder.WriteString(part + units[len(parts)-1-i])
	}
	duration, err := time.ParseDuration(builder.String())
	if err != nil {
		return 0, err
	}
	return duration.Milliseconds(), nil
}

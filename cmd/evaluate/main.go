package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avezina/paperlens/internal/bootstrap"
	"github.com/avezina/paperlens/internal/config"
	"github.com/avezina/paperlens/internal/core/domain"
	"github.com/avezina/paperlens/internal/core/usecase"
	"github.com/avezina/paperlens/internal/observability/logging"
)

var rule = strings.Repeat("=", 80)

func main() {
	kindFlag := flag.String("evaluation", "comprehensive", "evaluation to run: methodology, robustness, significance or comprehensive")
	outputFlag := flag.String("output", "", "file to save the evaluation report to")
	verboseFlag := flag.Bool("verbose", false, "print detailed progress")
	configFlag := flag.String("config", "", "path to a YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	paperURL := flag.Arg(0)

	kind, err := domain.ParseEvaluationKind(*kindFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadWithFile(*configFlag)
	if err != nil {
		fatal(err)
	}

	// Progress goes to stdout, structured logs to stderr. Without -verbose
	// only warnings (retries, breaker trips) surface.
	logLevel := "warn"
	if *verboseFlag {
		logLevel = cfg.LogLevel
	}
	logger := logging.NewTextLogger(os.Stderr, "evaluate", logLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(cfg, logger, bootstrap.Options{ServiceName: "evaluate"})
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(rule)
	fmt.Println("Research Paper Evaluator")
	fmt.Println(rule)
	fmt.Printf("Paper URL: %s\n", paperURL)
	fmt.Printf("Evaluation type: %s\n", kind)
	if *outputFlag != "" {
		fmt.Printf("Output file: %s\n", *outputFlag)
	}
	fmt.Println(rule)

	fmt.Println("\n[1/4] Fetching document...")
	start := time.Now()
	text, err := app.Fetcher.FetchDocumentText(ctx, paperURL)
	if err != nil {
		fatal(err)
	}
	if *verboseFlag {
		fmt.Printf("Fetched %d characters of text.\n", len(text))
	}
	stepDone(start)

	fmt.Println("\n[2/4] Chunking text...")
	start = time.Now()
	chunks := app.Chunker.Split(text)
	if *verboseFlag {
		fmt.Printf("Created %d chunks from the text.\n", len(chunks))
	}
	stepDone(start)

	fmt.Println("\n[3/4] Indexing and classifying the paper...")
	start = time.Now()
	evaluator, err := usecase.NewPaperEvaluator(ctx, app.Embedder, app.Analysis, cfg.RetrievalTopK, logger, text, chunks)
	if err != nil {
		fatal(err)
	}
	if *verboseFlag {
		printStats(evaluator.Stats())
	}
	classification := evaluator.Classification()
	fmt.Printf("Research type: %s (%s confidence)\n", classification.ResearchType, classification.Confidence)
	stepDone(start)

	fmt.Printf("\n[4/4] Performing %s evaluation...\n", kind)
	fmt.Println("This may take a few minutes depending on the length of the paper...")
	start = time.Now()
	report, err := evaluator.Evaluate(ctx, kind)
	if err != nil {
		fatal(err)
	}
	stepDone(start)

	fmt.Println("\n" + rule)
	fmt.Printf("EVALUATION RESULTS: %s\n", strings.ToUpper(string(kind)))
	fmt.Println(rule + "\n")
	fmt.Println(report)
	fmt.Println("\n" + rule)

	if *outputFlag != "" {
		if err := saveReport(*outputFlag, paperURL, kind, report); err != nil {
			fatal(err)
		}
		fmt.Printf("\nEvaluation saved to %s\n", *outputFlag)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <paper-url>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Evaluate a research paper fetched from a URL.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func stepDone(start time.Time) {
	fmt.Printf("Done in %.2f seconds.\n", time.Since(start).Seconds())
}

func printStats(stats domain.PaperStats) {
	fmt.Println("Extracted paper statistics:")
	fmt.Printf("- Word count: %d\n", stats.WordCount)
	fmt.Printf("- Sentence count: %d\n", stats.SentenceCount)
	fmt.Printf("- Paragraph count: %d\n", stats.ParagraphCount)
	fmt.Printf("- Citation count: %d\n", stats.CitationCount)
	fmt.Printf("- Figure count: %d\n", stats.FigureCount)
	fmt.Printf("- Table count: %d\n", stats.TableCount)
	fmt.Printf("- Equation count: %d\n", stats.EquationCount)

	terms := make([]string, 0, 10)
	for _, wc := range stats.TopCommonWords(10) {
		terms = append(terms, fmt.Sprintf("%s (%d)", wc.Word, wc.Count))
	}
	fmt.Printf("- Top 10 terms: %s\n", strings.Join(terms, ", "))
}

func saveReport(path, paperURL string, kind domain.EvaluationKind, report string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s EVALUATION\n\n", strings.ToUpper(string(kind)))
	fmt.Fprintf(&b, "Paper URL: %s\n\n", paperURL)
	b.WriteString(report)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("save evaluation report: %w", err)
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	os.Exit(1)
}

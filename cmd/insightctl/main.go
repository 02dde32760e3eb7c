// Package main implements the insightctl CLI for working with insightd: a
// local offline document analysis mode and server health checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/intelliconnect/insightd/internal/analysis"
	"github.com/intelliconnect/insightd/internal/extract"
	"github.com/intelliconnect/insightd/internal/logging"
)

var (
	serverURL string
	question  string
	version   = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "insightctl",
	Short: "CLI for insightd document analysis",
	Long: `insightctl analyzes business documents from the command line.

The analyze command runs fully offline: it extracts text from a local file
(PDF, CSV, Excel, or PowerPoint) and renders the heuristic analysis report
without contacting any server.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "insightd server URL")
	analyzeCmd.Flags().StringVarP(&question, "question", "q", "", "question to ask about the document")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(healthCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Extract and analyze a document locally",
	Long: `Extract text from a local document and print the analysis report.

Examples:
  # Analyze a spreadsheet
  insightctl analyze report.xlsx

  # Ask a specific question
  insightctl analyze q3.csv -q "How is revenue trending?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check insightd server health",
	RunE:  runHealth,
}

// formatForExt maps a file extension to the extraction format.
func formatForExt(path string) (extract.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.FormatPDF, nil
	case ".csv":
		return extract.FormatCSV, nil
	case ".xlsx", ".xls":
		return extract.FormatExcel, nil
	case ".pptx", ".ppt":
		return extract.FormatPowerPoint, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q (want .pdf, .csv, .xlsx, .xls, .pptx, or .ppt)", filepath.Ext(path))
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := formatForExt(path)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	logger := logging.NewNop()
	doc := extract.NewDocument(filepath.Base(path), "", raw)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res extract.Result
	switch format {
	case extract.FormatPDF:
		res = extract.NewPDFExtractor(logger).Extract(ctx, doc)
	case extract.FormatCSV:
		res = extract.NewCSVExtractor(5).Extract(ctx, doc)
	case extract.FormatExcel:
		res = extract.NewExcelExtractor(20).Extract(ctx, doc)
	case extract.FormatPowerPoint:
		chain, err := extract.NewPowerPointChain(logger, 15)
		if err != nil {
			return err
		}
		res, err = chain.Run(ctx, doc)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
	}

	if !res.Succeeded {
		fmt.Fprintf(os.Stderr, "[insightctl] extraction was unsuccessful, analyzing guidance text\n")
	}

	report := analysis.New().Analyze(res.Text, question, doc.FileName, string(format))
	fmt.Println(report.Markdown)

	if len(report.Suggestions) > 0 {
		fmt.Println("Suggested follow-up questions:")
		for _, s := range report.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("insightd unreachable at %s: %w", serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}

	fmt.Printf("insightd at %s: %s\n", serverURL, health.Status)
	return nil
}

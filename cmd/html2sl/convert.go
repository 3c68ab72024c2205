package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"html2sl/internal/config"
	"html2sl/internal/logger"
	"html2sl/pkg/html2sl"
)

// runConvert converts one input and writes the result
func runConvert(cmd *cobra.Command, cfg config.Config, args []string) error {
	converter := html2sl.New(cfg)

	source := "-"
	if len(args) > 0 {
		source = args[0]
	}

	var result *html2sl.Result
	var err error
	if source == "-" {
		result, err = converter.ConvertReader(cmd.InOrStdin())
		source = "<stdin>"
	} else {
		result, err = converter.ConvertFile(source)
	}
	if err != nil {
		return err
	}

	outputFile, _ := cmd.Flags().GetString("output")
	if err := writeOutput(cmd.OutOrStdout(), result.DSL, outputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if outputFile != "" {
		logger.Info("wrote output", "path", outputFile, "bytes", len(result.DSL)+1)
	}

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		showProcessingStats(cmd.ErrOrStderr(), result, source)
	}

	return nil
}

// writeOutput writes content and a trailing newline to a file or stdout
func writeOutput(stdout io.Writer, content, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}

	return os.WriteFile(filename, []byte(content+"\n"), 0644)
}

// showProcessingStats displays processing statistics
func showProcessingStats(w io.Writer, result *html2sl.Result, source string) {
	stats := result.ProcessingStats
	fmt.Fprintf(w, "\nProcessing Statistics for %s:\n", source)
	fmt.Fprintf(w, "  Input size: %s\n", humanize.Bytes(uint64(stats.InputBytes)))
	fmt.Fprintf(w, "  Output size: %s\n", humanize.Bytes(uint64(stats.OutputBytes)))
	fmt.Fprintf(w, "  Nodes parsed: %s\n", humanize.Comma(int64(stats.NodesParsed)))
	fmt.Fprintf(w, "  Elements emitted: %s\n", humanize.Comma(int64(stats.ElementsEmitted)))
	fmt.Fprintf(w, "  Text nodes emitted: %s\n", humanize.Comma(int64(stats.TextNodesEmitted)))
	fmt.Fprintf(w, "  Comments dropped: %s\n", humanize.Comma(int64(stats.CommentsDropped)))
	fmt.Fprintf(w, "  Blank text dropped: %s\n", humanize.Comma(int64(stats.BlankTextDropped)))
	if stats.UnresolvedSkipped > 0 {
		fmt.Fprintf(w, "  Unresolved nodes: %s\n", humanize.Comma(int64(stats.UnresolvedSkipped)))
	}
	fmt.Fprintf(w, "  Lines written: %s\n", humanize.Comma(int64(stats.LinesWritten)))
	fmt.Fprintf(w, "  Processing time: %v\n", stats.ProcessingTime)
}

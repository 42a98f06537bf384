package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/seo-forecast/internal/export"
	"github.com/sells-group/seo-forecast/internal/ingest"
)

var (
	keywordsFile   string
	keywordsFormat string
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Preview how a keyword file will be imported",
	RunE: func(cmd *cobra.Command, _ []string) error {
		imp, err := ingest.ReadFile(keywordsFile)
		if err != nil {
			return err
		}
		if keywordsFormat == string(export.FormatJSON) {
			return export.WriteJSON(cmd.OutOrStdout(), imp)
		}
		formatImport(cmd.OutOrStdout(), imp)
		return nil
	},
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsFile, "file", "", "keyword file (.csv, .txt or .xlsx) (required)")
	keywordsCmd.Flags().StringVar(&keywordsFormat, "format", string(export.FormatTable), "output format (table, json)")
	_ = keywordsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(keywordsCmd)
}

// formatImport writes the detected column mapping, the parsed keywords and
// any row problems to out.
func formatImport(out io.Writer, imp *ingest.Import) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Columns:\tterm=%s volume=%s position=%s target=%s difficulty=%s\n",
		columnName(imp.Header, imp.Mapping.Term),
		columnName(imp.Header, imp.Mapping.Volume),
		columnName(imp.Header, imp.Mapping.Position),
		columnName(imp.Header, imp.Mapping.Target),
		columnName(imp.Header, imp.Mapping.Difficulty),
	)
	_, _ = fmt.Fprintf(w, "Keywords:\t%d\n", len(imp.Keywords))
	_, _ = fmt.Fprintf(w, "Problems:\t%d\n\n", len(imp.Errors))

	_, _ = fmt.Fprintln(w, "KEYWORD\tVOLUME\tPOSITION\tTARGET\tDIFFICULTY")
	_, _ = fmt.Fprintln(w, "-------\t------\t--------\t------\t----------")
	for _, k := range imp.Keywords {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\n", k.Term, k.SearchVolume, k.Position, k.TargetPosition, k.Difficulty)
	}
	_ = w.Flush()

	if len(imp.Errors) > 0 {
		_, _ = fmt.Fprintln(out)
		for _, e := range imp.Errors {
			_, _ = fmt.Fprintf(out, "  %s\n", e.Error())
		}
	}
}

func columnName(header []string, idx int) string {
	if idx < 0 {
		return "-"
	}
	if idx < len(header) && header[idx] != "" {
		return fmt.Sprintf("%q", header[idx])
	}
	return fmt.Sprintf("#%d", idx+1)
}

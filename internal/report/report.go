// Package report formats engine output for humans (text), machines (json)
// and documents (markdown).
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/miradorstack/mirador-slo/internal/models"
	"github.com/miradorstack/mirador-slo/internal/utils"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --output flag value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatText, FormatJSON, FormatMarkdown:
		return Format(value), nil
	case "":
		return FormatText, nil
	default:
		return "", utils.Ef(utils.KindConfiguration, "report.ParseFormat", "unsupported output format %q (want text, json or markdown)", value)
	}
}

// RenderSLO renders an error-budget report in the requested format.
func RenderSLO(format Format, r models.ErrorBudgetReport) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(r)
	case FormatMarkdown:
		return sloMarkdown(r), nil
	default:
		return sloText(r), nil
	}
}

// RenderAnalysis renders an analysis report in the requested format.
func RenderAnalysis(format Format, r models.AnalysisReport) (string, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(r)
	case FormatMarkdown:
		return analysisMarkdown(r), nil
	default:
		return analysisText(r), nil
	}
}

func marshalJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", utils.Wrap(utils.KindRendering, "report.marshalJSON", "encode report", err)
	}
	return string(out) + "\n", nil
}

// ladderOrder returns burn-rate labels in ladder order, shortest lookback
// first, so reports are stable regardless of map iteration.
func ladderOrder(rates map[string]float64) []string {
	labels := make([]string, 0, len(rates))
	for _, w := range models.BurnRateLadder {
		if _, ok := rates[w.String()]; ok {
			labels = append(labels, w.String())
		}
	}
	return labels
}

func sloText(r models.ErrorBudgetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SLO report for %s (%s, target %.4g%%, window %s)\n\n", r.Metric, r.SLIType, r.TargetPercent, r.Window)

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SLI value:\t%.2f%%\n", r.SLIValue)
	fmt.Fprintf(w, "Samples:\t%d (%d good)\n", r.TotalSamples, r.SuccessfulSamples)
	fmt.Fprintf(w, "Budget total:\t%.4f\n", r.BudgetTotal)
	fmt.Fprintf(w, "Budget consumed:\t%.4f\n", r.BudgetConsumed)
	fmt.Fprintf(w, "Budget remaining:\t%.2f%%\n", r.BudgetRemainingPct)
	w.Flush()

	if len(r.Percentiles) > 0 {
		b.WriteString("\nPercentiles:\n")
		pw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		for _, p := range []string{"p50", "p95", "p99"} {
			if v, ok := r.Percentiles[p]; ok {
				fmt.Fprintf(pw, "%s:\t%g\n", p, v)
			}
		}
		pw.Flush()
	}

	if len(r.BurnRates) > 0 {
		b.WriteString("\nBurn rates:\n")
		bw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		for _, label := range ladderOrder(r.BurnRates) {
			fmt.Fprintf(bw, "%s:\t%.2fx\n", label, r.BurnRates[label])
		}
		bw.Flush()
	}

	fmt.Fprintf(&b, "\nRecommendation: %s\n", r.Recommendation)
	return b.String()
}

func sloMarkdown(r models.ErrorBudgetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## SLO report: %s\n\n", r.Metric)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| SLI type | %s |\n", r.SLIType)
	fmt.Fprintf(&b, "| Target | %.4g%% |\n", r.TargetPercent)
	fmt.Fprintf(&b, "| Window | %s |\n", r.Window)
	fmt.Fprintf(&b, "| SLI value | %.2f%% |\n", r.SLIValue)
	fmt.Fprintf(&b, "| Samples | %d (%d good) |\n", r.TotalSamples, r.SuccessfulSamples)
	fmt.Fprintf(&b, "| Budget total | %.4f |\n", r.BudgetTotal)
	fmt.Fprintf(&b, "| Budget consumed | %.4f |\n", r.BudgetConsumed)
	fmt.Fprintf(&b, "| Budget remaining | %.2f%% |\n", r.BudgetRemainingPct)

	if len(r.BurnRates) > 0 {
		b.WriteString("\n### Burn rates\n\n| Window | Rate |\n|---|---|\n")
		for _, label := range ladderOrder(r.BurnRates) {
			fmt.Fprintf(&b, "| %s | %.2fx |\n", label, r.BurnRates[label])
		}
	}

	fmt.Fprintf(&b, "\n**Recommendation:** %s\n", r.Recommendation)
	return b.String()
}

func analysisText(r models.AnalysisReport) string {
	var b strings.Builder

	if len(r.Anomalies) > 0 {
		fmt.Fprintf(&b, "Anomalies (%d):\n", len(r.Anomalies))
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "series\ttimestamp\tobserved\tbaseline\tscore\tmethod")
		for _, a := range r.Anomalies {
			fmt.Fprintf(w, "%s\t%s\t%g\t%.4g±%.4g\t%.2f\t%s\n",
				a.SeriesName, a.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
				a.Observed, a.BaselineMean, a.BaselineStddev, a.Score, a.Method)
		}
		w.Flush()
		b.WriteString("\n")
	}

	if len(r.Trends) > 0 {
		fmt.Fprintf(&b, "Trends (%d):\n", len(r.Trends))
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "series\tdirection\tslope\tconfidence")
		for _, t := range r.Trends {
			fmt.Fprintf(w, "%s\t%s\t%.6g\t%.2f\n", t.SeriesName, t.Direction, t.Slope, t.Confidence)
		}
		w.Flush()
		b.WriteString("\n")
	}

	if len(r.Correlations) > 0 {
		fmt.Fprintf(&b, "Correlations (%d):\n", len(r.Correlations))
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "series a\tseries b\tcoefficient")
		for _, c := range r.Correlations {
			if c.Defined {
				fmt.Fprintf(w, "%s\t%s\t%.4f\n", c.SeriesA, c.SeriesB, c.Coefficient)
			} else {
				fmt.Fprintf(w, "%s\t%s\tundefined (zero variance)\n", c.SeriesA, c.SeriesB)
			}
		}
		w.Flush()
		b.WriteString("\n")
	}

	if len(r.Cardinality) > 0 {
		fmt.Fprintf(&b, "Cardinality (%d):\n", len(r.Cardinality))
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "series\tlabel combinations\tflagged")
		for _, c := range r.Cardinality {
			fmt.Fprintf(w, "%s\t%d\t%t\n", c.SeriesName, c.UniqueLabelCombinations, c.Flagged)
		}
		w.Flush()
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "No findings.\n"
	}
	return b.String()
}

func analysisMarkdown(r models.AnalysisReport) string {
	var b strings.Builder

	if len(r.Anomalies) > 0 {
		b.WriteString("## Anomalies\n\n| Series | Timestamp | Observed | Baseline | Score | Method |\n|---|---|---|---|---|---|\n")
		for _, a := range r.Anomalies {
			fmt.Fprintf(&b, "| %s | %s | %g | %.4g±%.4g | %.2f | %s |\n",
				a.SeriesName, a.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
				a.Observed, a.BaselineMean, a.BaselineStddev, a.Score, a.Method)
		}
		b.WriteString("\n")
	}

	if len(r.Trends) > 0 {
		b.WriteString("## Trends\n\n| Series | Direction | Slope | Confidence |\n|---|---|---|---|\n")
		for _, t := range r.Trends {
			fmt.Fprintf(&b, "| %s | %s | %.6g | %.2f |\n", t.SeriesName, t.Direction, t.Slope, t.Confidence)
		}
		b.WriteString("\n")
	}

	if len(r.Correlations) > 0 {
		b.WriteString("## Correlations\n\n| Series A | Series B | Coefficient |\n|---|---|---|\n")
		for _, c := range r.Correlations {
			if c.Defined {
				fmt.Fprintf(&b, "| %s | %s | %.4f |\n", c.SeriesA, c.SeriesB, c.Coefficient)
			} else {
				fmt.Fprintf(&b, "| %s | %s | undefined |\n", c.SeriesA, c.SeriesB)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Cardinality) > 0 {
		b.WriteString("## Cardinality\n\n| Series | Label combinations | Flagged |\n|---|---|---|\n")
		for _, c := range r.Cardinality {
			fmt.Fprintf(&b, "| %s | %d | %t |\n", c.SeriesName, c.UniqueLabelCombinations, c.Flagged)
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return "No findings.\n"
	}
	return b.String()
}

// SortAnomalies orders records by timestamp then method for stable output.
func SortAnomalies(records []models.AnomalyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return records[i].Method < records[j].Method
	})
}

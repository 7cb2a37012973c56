package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/fatih/color"

	"masscal/domain/calibration"
	"masscal/internal/profiling"
	"masscal/models"
)

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func verdictString(v string) string {
	if v == string(calibration.VerdictPass) {
		return color.New(color.Bold, color.FgGreen).Sprint(v)
	}
	return color.New(color.Bold, color.FgRed).Sprint(v)
}

func formatDoF(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	if v >= 1e6 {
		return fmt.Sprintf("%.3g", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// printBudget writes the budget table and summary for one result
func printBudget(w io.Writer, source string, r *calibration.CalibrationResult) {
	fmt.Fprintf(w, "%s %s (%d readings, %s)\n\n", bold("Calibration"), source, r.Differences.Len(), r.Differences.Unit)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tu (mg)\tc\tu·c (mg)\tdof")
	for _, c := range r.Components {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6g\t%.6f\t%s\n", c.Name, c.Value, c.Sensitivity, c.Contribution(), formatDoF(c.DoF))
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  nominal mass:          %.6f g\n", r.NominalMassG)
	fmt.Fprintf(w, "  conventional mass:     %.6f g\n", r.ConventionalMassG)
	fmt.Fprintf(w, "  correction:            %+.4f mg\n", r.CorrectionMg)
	fmt.Fprintf(w, "  combined uncertainty:  %.6f mg\n", r.CombinedUncertaintyMg)
	fmt.Fprintf(w, "  effective dof:         %s\n", formatDoF(r.EffectiveDoF))
	fmt.Fprintf(w, "  coverage factor:       %.5f (%s)\n", r.CoverageFactor, r.CoverageBasis)
	fmt.Fprintf(w, "  expanded uncertainty:  %.6f mg (%.9f g)\n", r.ExpandedUncertaintyMg, r.ExpandedUncertaintyG)
	fmt.Fprintf(w, "  |correction| + U:     %.6f mg (MPE %.4f mg)\n", math.Abs(r.CorrectionMg)+r.ExpandedUncertaintyMg, r.MPEMg)
	fmt.Fprintf(w, "  verdict:               %s\n", verdictString(string(r.Verdict)))

	printReadingsProfile(w, r.Differences)
}

// printReadingsProfile adds spread diagnostics for the difference series
func printReadingsProfile(w io.Writer, d calibration.DifferenceSeries) {
	profile, err := profiling.ProfileReadings(d.Values)
	if err != nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  differences (%s):     min %.6g  median %.6g  max %.6g  range %.6g\n",
		d.Unit, profile.Min, profile.Median, profile.Max, profile.Range)
	fmt.Fprintf(w, "  quartiles:             Q1 %.6g  Q3 %.6g  skewness %.3f\n",
		profile.Q25, profile.Q75, profile.Skewness)
	if profile.HasOutliers() {
		fmt.Fprintln(w, color.YellowString("  warning: readings %v lie outside the 1.5·IQR fences", profile.Outliers))
	}
}

// printBatch writes one line per input file and a summary line
func printBatch(w io.Writer, sources []string, summary models.BatchCalibrationResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCORRECTION (mg)\tU (mg)\tk\tVERDICT")
	for _, item := range summary.Items {
		source := sources[item.Index]
		if item.Error != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", source, color.YellowString("ERROR: %s", item.Error.Message))
			continue
		}
		r := item.Result
		fmt.Fprintf(tw, "%s\t%+.4f\t%.6f\t%.5f\t%s\n", source, r.CorrectionMg, r.ExpandedUncertaintyMg, r.CoverageFactor, verdictString(r.Verdict))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%s %d passed, %d failed, %d errored\n", bold("Summary:"), summary.Passed, summary.Failed, summary.Errors)
}

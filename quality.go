package webclip

import "fmt"

// StructuralMetrics counts the structural assets present in a document
// representation. Used on both sides of the quality gate: once for the
// originally located DOM and once for the cleaned output.
type StructuralMetrics struct {
	Images   int `json:"images"`
	Formulas int `json:"formulas"`
	Tables   int `json:"tables"`
}

// QualityThresholds are the maximum acceptable per-class loss ratios.
type QualityThresholds struct {
	Images   float64 `json:"images"`
	Formulas float64 `json:"formulas"`
	Tables   float64 `json:"tables"`
}

// DefaultQualityThresholds returns the default loss tolerances: 30% for
// images, 50% for formulas and tables.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{Images: 0.3, Formulas: 0.5, Tables: 0.5}
}

// QualityReport is the advisory result of a gate check. UseHTMLFallback
// signals the caller to prefer the less-processed HTML representation
// over the cleaned Markdown; it is not a hard abort.
type QualityReport struct {
	Pass            bool   `json:"pass"`
	Reason          string `json:"reason,omitempty"`
	UseHTMLFallback bool   `json:"useHtmlFallback"`
}

// LossRatio returns (initial-final)/initial, or 0 when initial is 0.
// A negative difference (output gained assets) also yields 0.
func LossRatio(initial, final int) float64 {
	if initial <= 0 || final >= initial {
		return 0
	}
	return float64(initial-final) / float64(initial)
}

// CheckQuality compares structural metrics before and after cleaning.
// Classes are evaluated in priority order (images, formulas, tables) and
// the first violated threshold determines the reported reason.
func CheckQuality(initial, final StructuralMetrics, t QualityThresholds) QualityReport {
	if ratio := LossRatio(initial.Images, final.Images); ratio > t.Images {
		return failReport("images", ratio, t.Images)
	}
	if ratio := LossRatio(initial.Formulas, final.Formulas); ratio > t.Formulas {
		return failReport("formulas", ratio, t.Formulas)
	}
	if ratio := LossRatio(initial.Tables, final.Tables); ratio > t.Tables {
		return failReport("tables", ratio, t.Tables)
	}
	return QualityReport{Pass: true}
}

func failReport(class string, ratio, threshold float64) QualityReport {
	return QualityReport{
		Pass:            false,
		Reason:          fmt.Sprintf("lost %.0f%% of %s (threshold %.0f%%)", ratio*100, class, threshold*100),
		UseHTMLFallback: true,
	}
}

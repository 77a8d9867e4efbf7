// Package report renders scan and strategy results as a console dashboard.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

const (
	heavyRule = "======================================================================"
	lightRule = "----------------------------------------------------------------------"

	// topOpportunities caps the ranked list shown on the dashboard.
	topOpportunities = 15

	questionDisplayLen = 65
)

var tierIcons = map[domain.RiskTier]string{
	domain.RiskTierYolo:     "[YOLO]",
	domain.RiskTierMoonshot: "[MOON]",
	domain.RiskTierLongshot: "[LONG]",
	domain.RiskTierValue:    "[VAL] ",
}

// Renderer writes the moonshot dashboard to an io.Writer.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Header prints the dashboard banner for the given challenge.
func (r *Renderer) Header(startingCapital, target float64) {
	fmt.Fprintf(r.w, "\n%s\n", heavyRule)
	fmt.Fprintf(r.w, "MOONSHOT TRACKER - $%s -> $%s CHALLENGE\n", compactMoney(startingCapital), compactMoney(target))
	fmt.Fprintf(r.w, "%s\n", heavyRule)
}

// Strategy prints the compound plan summary and its stage breakdown.
func (r *Renderer) Strategy(st *domain.CompoundStrategy) {
	fmt.Fprintf(r.w, "\nCOMPOUND STRATEGY\n")
	fmt.Fprintf(r.w, "   Starting: $%s\n", money(st.StartingCapital))
	fmt.Fprintf(r.w, "   Target: $%s\n", money(st.Target))
	fmt.Fprintf(r.w, "   Required: %sx total\n", commaInt(math.Round(st.RequiredMultiplier)))
	fmt.Fprintf(r.w, "   Stages: %d\n", st.RecommendedStages)
	fmt.Fprintf(r.w, "   Per stage: %.1fx\n", st.PerStageMultiplier)

	fmt.Fprintf(r.w, "\nSTAGE BREAKDOWN\n")
	for _, t := range st.StageTargets() {
		icon := "[ ]"
		switch t.Status {
		case domain.StageStatusCompleted:
			icon = "[X]"
		case domain.StageStatusCurrent:
			icon = "[>]"
		}
		fmt.Fprintf(r.w, "   %s Stage %d: $%s -> $%s (%.1fx)\n",
			icon, t.Stage, money(t.Start), money(t.Target), t.MultiplierNeeded)
	}
}

// Scanning prints the scan-in-progress banner.
func (r *Renderer) Scanning() {
	fmt.Fprintf(r.w, "\nSCANNING FOR MOONSHOTS...\n")
}

// NoOpportunities prints the empty-result hint.
func (r *Renderer) NoOpportunities() {
	fmt.Fprintf(r.w, "\nNo opportunities found matching criteria.\n")
	fmt.Fprintf(r.w, "Try adjusting --max-price or --min-volume\n")
}

// Opportunities prints the ranked opportunity list, capped at the dashboard's
// display limit.
func (r *Renderer) Opportunities(opps []domain.Opportunity) {
	fmt.Fprintf(r.w, "\nTOP OPPORTUNITIES (by edge score)\n")
	fmt.Fprintf(r.w, "%s\n", lightRule)

	for i, opp := range opps {
		if i >= topOpportunities {
			break
		}
		icon, ok := tierIcons[opp.RiskTier]
		if !ok {
			icon = "[????]"
		}
		fmt.Fprintf(r.w, "%2d. %s $%.4f -> %sx\n",
			i+1, icon, opp.Price, commaInt(math.Round(opp.PotentialMultiplier)))
		fmt.Fprintf(r.w, "    Edge: %.0f/100 | Vol: $%s | %.0fd\n",
			opp.EdgeScore, commaInt(math.Round(opp.Volume)), opp.DaysToExpiry)
		fmt.Fprintf(r.w, "    %s\n", truncate(opp.Question, questionDisplayLen))
		fmt.Fprintf(r.w, "    %s\n\n", opp.URL())
	}
}

// Positions prints the recommended allocations for the strategy's current
// stage plus the combined payout if a single position hits.
func (r *Renderer) Positions(st *domain.CompoundStrategy, positions []domain.Position) {
	stage := st.StageTargets()[st.CurrentStage()-1]

	fmt.Fprintf(r.w, "\nRECOMMENDED POSITIONS FOR STAGE %d ($%s -> $%s)\n",
		stage.Stage, compactMoney(stage.Start), compactMoney(stage.Target))
	fmt.Fprintf(r.w, "%s\n", lightRule)

	total := 0.0
	for _, pos := range positions {
		fmt.Fprintf(r.w, "   $%.2f -> %s @ $%.4f\n", pos.Allocation, pos.Side, pos.Price)
		fmt.Fprintf(r.w, "   %.1f shares -> potential $%.2f (%.0fx)\n",
			pos.Shares, pos.PotentialValue, pos.PotentialMultiplier)
		fmt.Fprintf(r.w, "   %s\n", pos.Question)
		fmt.Fprintf(r.w, "   %s\n\n", pos.URL)
		total += pos.PotentialValue
	}

	fmt.Fprintf(r.w, "   TOTAL POTENTIAL: $%s (if ONE hits)\n", money(total))
}

// RealityCheck prints the closing disclaimer.
func (r *Renderer) RealityCheck(positionCount int, startingCapital float64) {
	fmt.Fprintf(r.w, "\n%s\n", heavyRule)
	fmt.Fprintf(r.w, "REALITY CHECK\n")
	fmt.Fprintf(r.w, "%s\n", heavyRule)
	fmt.Fprintf(r.w, "   * You're betting on %d longshots\n", positionCount)
	fmt.Fprintf(r.w, "   * Most will lose (that's why they're cheap)\n")
	fmt.Fprintf(r.w, "   * If ANY ONE hits, you profit\n")
	fmt.Fprintf(r.w, "   * If none hit, you lose $%s\n", compactMoney(startingCapital))
	fmt.Fprintf(r.w, "   * This is gambling, not investing\n")
	fmt.Fprintf(r.w, "%s\n", heavyRule)
}

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	out := groupThousands(s[:dot]) + s[dot:]
	if neg {
		return "-" + out
	}
	return out
}

// compactMoney drops trailing cents when the amount is whole, and shortens
// round thousands to NK form for banner lines ($100000 -> $100K).
func compactMoney(v float64) string {
	if v >= 1000 && v == math.Trunc(v) && math.Mod(v, 1000) == 0 {
		return commaInt(v/1000) + "K"
	}
	if v == math.Trunc(v) {
		return commaInt(v)
	}
	return money(v)
}

// commaInt formats a whole-valued float with thousands separators and no
// decimals.
func commaInt(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	out := groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	if neg {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

package quote

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// Dimension triplet grammar: thickness x width x length in millimetres,
// followed by a piece count. Ordered from strict to permissive; first match
// wins. Examples: "10x1500x3000 - 2 Nos", "12mm x 1250 × 2500 – 4 pcs".
var dimensionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*mm\s*[x×*]\s*(\d+)\s*(?:mm)?\s*[x×*]\s*(\d+)\s*(?:mm)?.*?(\d+)\s*(?:nos|pcs|plates?)`),
	regexp.MustCompile(`(?i)(\d+)[x×*](\d+)[x×*](\d+).*?(\d+)\s*(?:nos|pcs|plates?)`),
	regexp.MustCompile(`(?i)(\d+)\s*[x×*]\s*(\d+)\s*[x×*]\s*(\d+).*?(\d+)\s*(?:nos|pcs|plates?)`),
}

// Standard sections sold by length: section designation, length in metres,
// piece count. Example: "ISMC 100 - 6 m x 10 nos".
var (
	reSectionName  = regexp.MustCompile(`(?i)\b(ismc|ismb|angle)\s*(\d+(?:x\d+x\d+)?)`)
	reSectionLen   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:m|mtr|meter|metre)s?\b`)
	reSectionCount = regexp.MustCompile(`(?i)(\d+)\s*(?:nos|pcs|lengths?)\b`)
)

type plateDims struct {
	Thickness float64
	Width     float64
	Length    float64
	Pieces    float64
}

// parsePlateDims extracts a plate dimension triplet and piece count from a
// free-text description. Returns false when no pattern matches; nothing else
// about the description is interpreted.
func parsePlateDims(desc string) (plateDims, bool) {
	for _, re := range dimensionPatterns {
		m := re.FindStringSubmatch(desc)
		if m == nil {
			continue
		}
		t, err1 := strconv.ParseFloat(m[1], 64)
		w, err2 := strconv.ParseFloat(m[2], 64)
		l, err3 := strconv.ParseFloat(m[3], 64)
		n, err4 := strconv.ParseFloat(m[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		if t <= 0 || w <= 0 || l <= 0 || n <= 0 {
			continue
		}
		return plateDims{Thickness: t, Width: w, Length: l, Pieces: n}, true
	}
	return plateDims{}, false
}

// plateWeightKg computes steel plate weight from millimetre dimensions:
// t*w*l*7.85*pieces/1e6.
func plateWeightKg(d plateDims) float64 {
	return round2(d.Thickness * d.Width * d.Length * constants.SteelDensity * d.Pieces / 1_000_000)
}

// sectionWeightKg derives weight for standard sections quoted by length,
// using the published kg/m tables. Needs the designation, a length in metres
// and a piece count all present in the description.
func sectionWeightKg(desc string) (float64, bool) {
	name := reSectionName.FindStringSubmatch(desc)
	if name == nil {
		return 0, false
	}
	key := strings.ToLower(name[1] + " " + name[2])
	perMetre, ok := constants.SectionWeights[key]
	if !ok {
		return 0, false
	}
	lm := reSectionLen.FindStringSubmatch(desc)
	cm := reSectionCount.FindStringSubmatch(desc)
	if lm == nil || cm == nil {
		return 0, false
	}
	length, err1 := strconv.ParseFloat(lm[1], 64)
	count, err2 := strconv.ParseFloat(cm[1], 64)
	if err1 != nil || err2 != nil || length <= 0 || count <= 0 {
		return 0, false
	}
	return round2(perMetre * length * count), true
}

// EnrichItem derives accurate weight and amount for one line item.
//
// When the description carries a plate dimension triplet the weight is
// computed from the dimensions and overrides any supplied quantity. Otherwise
// the supplied quantity is the weight basis, converted from metric tons when
// the unit annotation says so; the original unit is folded into the
// description for display and the unit flips to "kg" so conversion never
// reapplies. The result is a pure function of (description, quantity, unit,
// rate): enriching an already-enriched item is a no-op.
func EnrichItem(item entity.LineItem) entity.LineItem {
	out := item

	if dims, ok := parsePlateDims(item.Description); ok {
		weight := plateWeightKg(dims)
		out.QuantityKg = weight
		out.Unit = "kg"
		out.Amount = round2(weight * out.RatePerKg)
		return out
	}

	// sections quoted by length only kick in when no quantity was stated
	if item.QuantityKg == 0 {
		if weight, ok := sectionWeightKg(item.Description); ok {
			out.QuantityKg = weight
			out.Unit = "kg"
			out.Amount = round2(weight * out.RatePerKg)
			return out
		}
	}

	qty := item.QuantityKg
	if constants.IsTonUnit(item.Unit) {
		annotated := fmt.Sprintf("%s (%s %s)", strings.TrimSpace(item.Description),
			formatQty(qty), strings.ToUpper(strings.TrimSpace(item.Unit)))
		out.Description = annotated
		qty *= constants.KgPerMetricTon
	}
	out.QuantityKg = qty
	out.Unit = "kg"
	out.Amount = round2(qty * out.RatePerKg)
	return out
}

// EnrichItems enriches every item, preserving order. Items it cannot improve
// pass through with amount recomputed from whatever quantity and rate they
// carry; no error is ever reported.
func EnrichItems(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, EnrichItem(it))
	}
	return out
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

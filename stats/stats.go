package stats

import (
	"math"
	"sort"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/types"
)

// Diversity classification labels. The normalized-entropy thresholds
// backing them (0.3, 0.6, 0.85) are fixed contract values.
const (
	DiversityNoData      = "No data"
	DiversityHighlyConc  = "Highly concentrated"
	DiversityModerate    = "Moderately concentrated"
	DiversityWell        = "Well distributed"
	DiversityUniform     = "Uniformly distributed"
	significanceBoundary = 0.05
)

// Hypothesis test names.
const (
	TestNone           = "None"
	TestSingleCategory = "Single category (no test)"
	TestBinomial       = "Binomial test"
	TestChiSquare      = "Chi-square goodness of fit"
)

// CategoryStat is one row of the per-category table, sorted descending
// by count.
type CategoryStat struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TestResult is the outcome of the concentration hypothesis test.
type TestResult struct {
	Statistic     float64 `json:"statistic"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
	Name          string  `json:"test_name"`
}

// Summary is the full statistical description of a category distribution.
type Summary struct {
	Total             int            `json:"total"`
	Categories        []CategoryStat `json:"categories"`
	Entropy           float64        `json:"entropy"`
	NormalizedEntropy float64        `json:"normalized_entropy"`
	Diversity         string         `json:"diversity"`
	Dominant          string         `json:"dominant"`
	Concentration     float64        `json:"concentration"` // dominant category's percentage
	Test              TestResult     `json:"test"`
}

// Option configures Analyze.
type Option func(*analyzer)

// WithNormalCDF substitutes the standard normal CDF used by the binomial
// test.
func WithNormalCDF(cdf NormalCDF) Option {
	return func(a *analyzer) { a.normalCDF = cdf }
}

// WithChiSquareCDF substitutes the chi-square CDF used by the
// goodness-of-fit test.
func WithChiSquareCDF(cdf ChiSquareCDF) Option {
	return func(a *analyzer) { a.chiSquareCDF = cdf }
}

type analyzer struct {
	normalCDF    NormalCDF
	chiSquareCDF ChiSquareCDF
}

// Analyze computes the statistical summary of a distribution. It never
// fails: zero categories, zero total, and single-category inputs all have
// defined outputs.
func Analyze(dist types.Distribution, opts ...Option) Summary {
	a := analyzer{
		normalCDF:    StandardNormalCDF,
		chiSquareCDF: ChiSquareCDFDefault,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a.analyze(dist)
}

func (a analyzer) analyze(dist types.Distribution) Summary {
	total := dist.Total()
	if len(dist) == 0 || total == 0 {
		return Summary{
			Diversity: DiversityNoData,
			Dominant:  "None",
			Test:      TestResult{PValue: 1, Name: TestNone},
		}
	}

	categories := sortedStats(dist, total)
	entropy := shannonEntropy(categories, total)
	normalized := 0.0
	if len(categories) > 1 {
		normalized = entropy / math.Log2(float64(len(categories)))
	}

	dominant := categories[0]

	return Summary{
		Total:             total,
		Categories:        categories,
		Entropy:           entropy,
		NormalizedEntropy: normalized,
		Diversity:         classifyDiversity(normalized),
		Dominant:          dominant.Label,
		Concentration:     dominant.Percentage,
		Test:              a.test(categories, total),
	}
}

// sortedStats builds the per-category table sorted descending by count.
// Equal counts are broken by label so the order is deterministic.
func sortedStats(dist types.Distribution, total int) []CategoryStat {
	categories := make([]CategoryStat, 0, len(dist))
	for label, count := range dist {
		categories = append(categories, CategoryStat{
			Label:      label,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Label < categories[j].Label
	})
	return categories
}

// shannonEntropy computes H = -sum(p*log2(p)) over categories with p > 0.
func shannonEntropy(categories []CategoryStat, total int) float64 {
	entropy := 0.0
	for _, c := range categories {
		if c.Count == 0 {
			continue
		}
		p := float64(c.Count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func classifyDiversity(normalized float64) string {
	switch {
	case normalized < 0.3:
		return DiversityHighlyConc
	case normalized < 0.6:
		return DiversityModerate
	case normalized < 0.85:
		return DiversityWell
	default:
		return DiversityUniform
	}
}

// test selects the hypothesis test by category count: none for one
// category, binomial against a 50/50 null for two, chi-square against a
// uniform null for three or more.
func (a analyzer) test(categories []CategoryStat, total int) TestResult {
	switch len(categories) {
	case 1:
		return TestResult{Statistic: 0, PValue: 1, Name: TestSingleCategory}
	case 2:
		return a.binomialTest(categories[0].Count, total)
	default:
		return a.chiSquareTest(categories, total)
	}
}

// binomialTest runs a two-tailed binomial test with the normal
// approximation against a null of an even split.
func (a analyzer) binomialTest(dominantCount, total int) TestResult {
	observed := float64(dominantCount) / float64(total)
	standardError := math.Sqrt(0.25 / float64(total))
	z := math.Abs(observed-0.5) / standardError

	p := 2 * (1 - a.normalCDF(z))
	p = clampProbability(p)

	return TestResult{
		Statistic:     z,
		PValue:        p,
		IsSignificant: p < significanceBoundary,
		Name:          TestBinomial,
	}
}

// chiSquareTest runs a goodness-of-fit test against a uniform null.
func (a analyzer) chiSquareTest(categories []CategoryStat, total int) TestResult {
	expected := float64(total) / float64(len(categories))

	chi2 := 0.0
	for _, c := range categories {
		diff := float64(c.Count) - expected
		chi2 += diff * diff / expected
	}

	dof := len(categories) - 1
	p := clampProbability(1 - a.chiSquareCDF(chi2, dof))

	return TestResult{
		Statistic:     chi2,
		PValue:        p,
		IsSignificant: p < significanceBoundary,
		Name:          TestChiSquare,
	}
}

func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

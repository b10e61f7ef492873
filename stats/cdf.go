package stats

import "math"

// NormalCDF is the cumulative distribution function of the standard
// normal distribution.
type NormalCDF func(z float64) float64

// ChiSquareCDF is the cumulative distribution function of the chi-square
// distribution with dof degrees of freedom.
type ChiSquareCDF func(x float64, dof int) float64

// StandardNormalCDF evaluates the standard normal CDF via the error
// function.
func StandardNormalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// ChiSquareCDFDefault evaluates the chi-square CDF as the regularized
// lower incomplete gamma function P(dof/2, x/2).
func ChiSquareCDFDefault(x float64, dof int) float64 {
	if x <= 0 || dof <= 0 {
		return 0
	}
	return regularizedLowerGamma(float64(dof)/2, x/2)
}

const (
	gammaMaxIterations = 500
	gammaEpsilon       = 1e-14
)

// regularizedLowerGamma computes P(a, x) = γ(a, x) / Γ(a) using the series
// expansion for x < a+1 and the continued fraction for the complement
// otherwise (Numerical Recipes gammp).
func regularizedLowerGamma(a, x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x < a+1:
		return lowerGammaSeries(a, x)
	default:
		return 1 - upperGammaContinuedFraction(a, x)
	}
}

// lowerGammaSeries evaluates P(a, x) by its power series.
func lowerGammaSeries(a, x float64) float64 {
	lgamma, _ := math.Lgamma(a)

	ap := a
	sum := 1.0 / a
	del := sum
	for i := 0; i < gammaMaxIterations; i++ {
		ap++
		del *= x / ap
		sum += del
		if math.Abs(del) < math.Abs(sum)*gammaEpsilon {
			break
		}
	}
	return sum * math.Exp(-x+a*math.Log(x)-lgamma)
}

// upperGammaContinuedFraction evaluates Q(a, x) = 1 - P(a, x) by the
// modified Lentz continued fraction.
func upperGammaContinuedFraction(a, x float64) float64 {
	lgamma, _ := math.Lgamma(a)

	const tiny = 1e-300
	b := x + 1 - a
	c := 1 / tiny
	d := 1 / b
	h := d

	for i := 1; i <= gammaMaxIterations; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = b + an/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < gammaEpsilon {
			break
		}
	}
	return math.Exp(-x+a*math.Log(x)-lgamma) * h
}

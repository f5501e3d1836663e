package sentiment

// Estimator scores text polarity in [-1, 1]. Implementations may fail;
// callers are expected to degrade rather than abort on error.
type Estimator interface {
	Estimate(text string) (float64, error)
}

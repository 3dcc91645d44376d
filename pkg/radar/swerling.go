package radar

// Fluctuation identifies the Swerling target-fluctuation model used when
// computing the minimum required SNR. Swerling 0 is the non-fluctuating
// reference; models I-IV cover the slow/fast, dominant/many-scatterer
// combinations.
type Fluctuation int

const (
	Swerling0 Fluctuation = iota
	SwerlingI
	SwerlingII
	SwerlingIII
	SwerlingIV
)

// integrationExponent is the per-model exponent k in the integration-gain
// term 10*log10(n^k) subtracted from the single-pulse Albersheim SNR.
var integrationExponent = map[Fluctuation]float64{
	Swerling0:   1.0,
	SwerlingI:   0.5,
	SwerlingII:  0.7,
	SwerlingIII: 0.55,
	SwerlingIV:  0.75,
}

func (f Fluctuation) String() string {
	switch f {
	case Swerling0:
		return "Swerling 0"
	case SwerlingI:
		return "Swerling I"
	case SwerlingII:
		return "Swerling II"
	case SwerlingIII:
		return "Swerling III"
	case SwerlingIV:
		return "Swerling IV"
	default:
		return "Swerling ?"
	}
}

// Exponent returns the pulse-integration exponent for the model.
// Unknown values fall back to the non-fluctuating exponent.
func (f Fluctuation) Exponent() float64 {
	if k, ok := integrationExponent[f]; ok {
		return k
	}
	return integrationExponent[Swerling0]
}

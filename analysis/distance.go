package analysis

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

const spectrumSize = 4096

// Metrics contains distance and similarity measurements between two renders.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	AlignedFrames   int `json:"aligned_frames"`
	LagSamples      int `json:"lag_samples"`

	TimeRMSE       float64 `json:"time_rmse"`
	EnvelopeRMSEDB float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB float64 `json:"spectral_rmse_db"`
	RefPeakHz      float64 `json:"ref_peak_hz"`
	CandPeakHz     float64 `json:"cand_peak_hz"`
	PitchDiffCents float64 `json:"pitch_diff_cents"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Options controls how Compare prepares the signals.
type Options struct {
	// Align searches for the best lag within half a second before comparing.
	Align bool
	// Normalize scales both signals to the same RMS before comparing.
	Normalize bool
}

// DefaultOptions are suited to fitting a render against a recording.
var DefaultOptions = Options{Align: true, Normalize: true}

// Compare returns objective distance metrics and a combined score in [0,1]
// using DefaultOptions.
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	return CompareWith(reference, candidate, sampleRate, DefaultOptions)
}

// CompareWith is Compare with explicit options. With both options disabled
// the time-domain RMSE is the raw sample-by-sample error.
func CompareWith(reference []float64, candidate []float64, sampleRate int, opts Options) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		m.Score = 1.0
		return m
	}

	ref, cand := reference, candidate
	if opts.Normalize {
		ref = normalizeRMS(ref, 0.1)
		cand = normalizeRMS(cand, 0.1)
	}
	if opts.Align {
		maxLag := minInt(sampleRate/2, minInt(len(ref), len(cand))-1)
		if maxLag < 1 {
			maxLag = 1
		}
		m.LagSamples = estimateLag(ref, cand, maxLag)
		ref, cand = alignByLag(ref, cand, m.LagSamples)
	}

	n := minInt(len(ref), len(cand))
	if n < 256 {
		m.Score = 1.0
		return m
	}
	ref = ref[:n]
	cand = cand[:n]
	m.AlignedFrames = n

	m.TimeRMSE = RMSE(ref, cand)

	refEnv := rmsEnvelope(ref, 256, 128)
	candEnv := rmsEnvelope(cand, 256, 128)
	if envN := minInt(len(refEnv), len(candEnv)); envN > 0 {
		var sum float64
		for i := 0; i < envN; i++ {
			d := linToDB(refEnv[i]) - linToDB(candEnv[i])
			sum += d * d
		}
		m.EnvelopeRMSEDB = math.Sqrt(sum / float64(envN))
	}

	refMag := magnitudeSpectrum(ref)
	candMag := magnitudeSpectrum(cand)
	m.SpectralRMSEDB = spectralRMSEDB(refMag, candMag)
	m.RefPeakHz = peakHz(refMag, sampleRate)
	m.CandPeakHz = peakHz(candMag, sampleRate)
	if m.RefPeakHz > 0 && m.CandPeakHz > 0 {
		m.PitchDiffCents = math.Abs(1200 * math.Log2(m.CandPeakHz/m.RefPeakHz))
	}

	timeNorm := clamp01(m.TimeRMSE / 0.25)
	envNorm := clamp01(m.EnvelopeRMSEDB / 30.0)
	specNorm := clamp01(m.SpectralRMSEDB / 30.0)
	pitchNorm := clamp01(m.PitchDiffCents / 100.0)
	m.Score = clamp01(0.25*timeNorm + 0.25*envNorm + 0.35*specNorm + 0.15*pitchNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m
}

// RMSE returns the root mean square difference over the common length.
func RMSE(a []float64, b []float64) float64 {
	n := minInt(len(a), len(b))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// PeakFrequency returns the frequency of the strongest spectral bin of the
// first 4096 samples of x, refined by parabolic interpolation.
func PeakFrequency(x []float64, sampleRate int) float64 {
	if sampleRate <= 0 || len(x) < 16 {
		return 0
	}
	return peakHz(magnitudeSpectrum(x), sampleRate)
}

// magnitudeSpectrum returns |X[k]| of a Hann-windowed, zero-padded frame.
func magnitudeSpectrum(x []float64) []float64 {
	n := minInt(len(x), spectrumSize)
	plan, err := algofft.NewPlanReal64(spectrumSize)
	if err != nil {
		return nil
	}
	hann, err := window.Hann(n)
	if err != nil {
		return nil
	}
	buf := make([]float64, spectrumSize)
	for i := 0; i < n; i++ {
		buf[i] = x[i] * hann[i]
	}
	bins := make([]complex128, spectrumSize/2+1)
	plan.Forward(bins, buf)

	mag := make([]float64, len(bins))
	for k, c := range bins {
		mag[k] = cmplx.Abs(c)
	}
	return mag
}

func spectralRMSEDB(a, b []float64) float64 {
	bins := minInt(len(a), len(b)) - 1
	if bins < 2 {
		return 0
	}
	var sum float64
	for k := 1; k < bins; k++ {
		d := linToDB(a[k]) - linToDB(b[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1))
}

func peakHz(mag []float64, sampleRate int) float64 {
	if len(mag) < 3 {
		return 0
	}
	best := 1
	for k := 2; k < len(mag)-1; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}
	if mag[best] <= 1e-12 {
		return 0
	}
	pos := float64(best)
	a, b, c := mag[best-1], mag[best], mag[best+1]
	if den := a - 2*b + c; den != 0 {
		pos += 0.5 * (a - c) / den
	}
	return pos * float64(sampleRate) / float64(spectrumSize)
}

func normalizeRMS(x []float64, target float64) []float64 {
	r := rms1(x)
	if r <= 1e-12 {
		return x
	}
	g := target / r
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

func estimateLag(ref []float64, cand []float64, maxLag int) int {
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	step := 2
	if len(ref) > 200000 || len(cand) > 200000 {
		step = 4
	}
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		if s := dotAtLag(ref, cand, lag, step); s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

func dotAtLag(a []float64, b []float64, lag int, step int) float64 {
	ai, bi := 0, 0
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := minInt(len(a)-ai, len(b)-bi)
	var sum float64
	for i := 0; i < n; i += step {
		sum += a[ai+i] * b[bi+i]
	}
	return sum
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	if -lag >= len(cand) {
		return nil, nil
	}
	return ref, cand[-lag:]
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame int, hop int) []float64 {
	if len(x) < frame {
		return nil
	}
	out := make([]float64, 1+(len(x)-frame)/hop)
	for i := range out {
		out[i] = rms1(x[i*hop : i*hop+frame])
	}
	return out
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

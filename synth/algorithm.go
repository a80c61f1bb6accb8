package synth

// Operator indices. Operators are processed from D down to A.
const (
	OpA = iota
	OpB
	OpC
	OpD
)

// NumAlgorithms is the number of routing topologies.
const NumAlgorithms = 11

// route describes one topology: for every operator the set of operators
// whose outputs are averaged into its phase offset, and the audible set.
type route struct {
	sources [NumOperators][]int
	outputs []int
}

var algorithms = [NumAlgorithms]route{
	// D -> C -> B -> A
	{sources: [NumOperators][]int{OpA: {OpB}, OpB: {OpC}, OpC: {OpD}}, outputs: []int{OpA}},
	// (C+D) -> B -> A
	{sources: [NumOperators][]int{OpA: {OpB}, OpB: {OpC, OpD}}, outputs: []int{OpA}},
	// C -> B, (B+D) -> A
	{sources: [NumOperators][]int{OpA: {OpB, OpD}, OpB: {OpC}}, outputs: []int{OpA}},
	// D -> C, D -> B, (B+C) -> A
	{sources: [NumOperators][]int{OpA: {OpB, OpC}, OpB: {OpD}, OpC: {OpD}}, outputs: []int{OpA}},
	// D -> C, C -> B, C -> A
	{sources: [NumOperators][]int{OpA: {OpC}, OpB: {OpC}, OpC: {OpD}}, outputs: []int{OpA, OpB}},
	// D -> C -> B, A alone
	{sources: [NumOperators][]int{OpB: {OpC}, OpC: {OpD}}, outputs: []int{OpA, OpB}},
	// (B+C+D) -> A
	{sources: [NumOperators][]int{OpA: {OpB, OpC, OpD}}, outputs: []int{OpA}},
	// D -> C, B -> A
	{sources: [NumOperators][]int{OpA: {OpB}, OpC: {OpD}}, outputs: []int{OpA, OpC}},
	// D -> C, D -> B, D -> A
	{sources: [NumOperators][]int{OpA: {OpD}, OpB: {OpD}, OpC: {OpD}}, outputs: []int{OpA, OpB, OpC}},
	// D -> C
	{sources: [NumOperators][]int{OpC: {OpD}}, outputs: []int{OpA, OpB, OpC}},
	// four carriers
	{outputs: []int{OpA, OpB, OpC, OpD}},
}

// Algorithm routes the operators of a voice through one topology. The id is
// latched at note start.
type Algorithm struct {
	id      int
	samples [NumOperators]float64
}

// ClampAlgorithm maps any id onto the valid range.
func ClampAlgorithm(id int) int {
	if id < 0 {
		return 0
	}
	if id >= NumAlgorithms {
		return NumAlgorithms - 1
	}
	return id
}

// StartNote latches the algorithm id for the coming note.
func (a *Algorithm) StartNote(p *Params) {
	a.id = ClampAlgorithm(p.Algorithm)
}

// ID returns the latched algorithm id.
func (a *Algorithm) ID() int { return a.id }

// Process runs every operator once, feeding averaged modulator outputs into
// the phase offsets of their targets, and returns the average of the
// audible operators. isOutput is overwritten with the audible set.
func (a *Algorithm) Process(ops *[NumOperators]*Operator, isOutput *[NumOperators]bool) float64 {
	r := &algorithms[a.id]
	*isOutput = [NumOperators]bool{}

	for i := NumOperators - 1; i >= 0; i-- {
		if src := r.sources[i]; len(src) > 0 {
			var sum float64
			for _, s := range src {
				sum += a.samples[s]
			}
			ops[i].AddPhaseOffset(sum / float64(len(src)))
		}
		a.samples[i] = ops[i].Process()
	}

	var out float64
	for _, i := range r.outputs {
		isOutput[i] = true
		out += a.samples[i]
	}
	return out / float64(len(r.outputs))
}

// Sample returns the raw output of operator i from the last Process call.
func (a *Algorithm) Sample(i int) float64 { return a.samples[i] }

package domain

import "math"

// EstimateSigma computes the noise standard deviation over a selected
// window of a measured trace. x0 and dx describe the trace coordinates
// (dx is negative for the descending frequency axes measurements use),
// win0 and win1 bound the selection in the same coordinates. Windows
// reaching past the trace are clamped; an empty selection maps to
// ErrSkipUpdate.
func EstimateSigma(x0, dx, win0, win1 float64, values []float64) (float64, error) {
	if len(values) == 0 || dx == 0 {
		return 0, ErrSkipUpdate
	}
	if dx > 0 {
		win0, win1 = win1, win0
		dx = -dx
	}

	left := math.Min(math.Max(win0, win1), x0)
	right := math.Max(math.Min(win0, win1), x0+float64(len(values))*dx)

	start := int(math.Max(0, math.Round((left-x0)/dx)))
	end := start + int(math.Round((right-left)/dx))
	if end > len(values) {
		end = len(values)
	}
	if start >= end {
		return 0, ErrSkipUpdate
	}

	window := values[start:end]
	var mean float64
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))

	var variance float64
	for _, v := range window {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(window))), nil
}

// ExperimentTrace extracts the first dependent-variable trace of the
// method's attached experiment: the coordinate of the first point, the
// step between points in Hz, and the values. ok is false when no
// experiment is attached or its components are not plain numbers.
func (m Method) ExperimentTrace() (x0, dx float64, values []float64, ok bool) {
	root, ok := m.Experiment["csdm"].(map[string]any)
	if !ok {
		return 0, 0, nil, false
	}

	dims, ok := root["dimensions"].([]any)
	if !ok || len(dims) == 0 {
		return 0, 0, nil, false
	}
	dim, ok := dims[0].(map[string]any)
	if !ok {
		return 0, 0, nil, false
	}
	increment, _ := dim["increment"].(string)
	q, err := ParseQuantity(increment)
	if err != nil {
		return 0, 0, nil, false
	}
	dx = float64(q)
	if offset, present := dim["coordinates_offset"].(string); present {
		q, err := ParseQuantity(offset)
		if err != nil {
			return 0, 0, nil, false
		}
		x0 = float64(q)
	}

	dvs, ok := root["dependent_variables"].([]any)
	if !ok || len(dvs) == 0 {
		return 0, 0, nil, false
	}
	dv, ok := dvs[0].(map[string]any)
	if !ok {
		return 0, 0, nil, false
	}
	components, ok := dv["components"].([]any)
	if !ok || len(components) == 0 {
		return 0, 0, nil, false
	}
	raw, ok := components[0].([]any)
	if !ok {
		return 0, 0, nil, false
	}
	values = make([]float64, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return 0, 0, nil, false
		}
		values[i] = f
	}
	return x0, dx, values, true
}

// NoiseSigma estimates the noise standard deviation over the whole
// attached experiment trace.
func (m Method) NoiseSigma() (float64, bool) {
	x0, dx, values, ok := m.ExperimentTrace()
	if !ok || dx == 0 {
		return 0, false
	}
	// The full-window standard deviation ignores point order, so an
	// ascending axis can be reinterpreted as descending.
	if dx > 0 {
		x0 += float64(len(values)-1) * dx
		dx = -dx
	}
	sigma, err := EstimateSigma(x0, dx, x0, x0+float64(len(values))*dx, values)
	if err != nil {
		return 0, false
	}
	return sigma, true
}

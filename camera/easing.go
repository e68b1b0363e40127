package camera

// Easing maps normalized elapsed time in [0, 1] to an interpolation
// factor. Every easing returns 0 at 0 and 1 at 1.
type Easing func(t float64) float64

// Linear progresses at constant speed.
func Linear(t float64) float64 { return t }

// QuadraticIn accelerates from zero velocity.
func QuadraticIn(t float64) float64 { return t * t }

// QuadraticOut decelerates to zero velocity.
func QuadraticOut(t float64) float64 { return t * (2 - t) }

// QuadraticInOut accelerates until halfway, then decelerates.
func QuadraticInOut(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t
	}
	t--
	return -0.5 * (t*(t-2) - 1)
}

// CubicIn accelerates from zero velocity.
func CubicIn(t float64) float64 { return t * t * t }

// CubicOut decelerates to zero velocity.
func CubicOut(t float64) float64 {
	t--
	return t*t*t + 1
}

// CubicInOut accelerates until halfway, then decelerates.
func CubicInOut(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t
	}
	t -= 2
	return 0.5 * (t*t*t + 2)
}

var easings = map[string]Easing{
	"linear":         Linear,
	"quadraticIn":    QuadraticIn,
	"quadraticOut":   QuadraticOut,
	"quadraticInOut": QuadraticInOut,
	"cubicIn":        CubicIn,
	"cubicOut":       CubicOut,
	"cubicInOut":     CubicInOut,
}

// EasingByName returns the easing registered under name. Unknown names
// return Linear and false.
func EasingByName(name string) (Easing, bool) {
	if e, ok := easings[name]; ok {
		return e, true
	}
	return Linear, false
}

// EasingNames returns the recognized easing names.
func EasingNames() []string {
	return []string{"linear", "quadraticIn", "quadraticOut", "quadraticInOut", "cubicIn", "cubicOut", "cubicInOut"}
}

package interfaces

// MathRenderer typesets an equation expression into presentation markup.
// Implementations must be safe for concurrent use.
type MathRenderer interface {
	RenderMath(expr string, display bool) (string, error)
}

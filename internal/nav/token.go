package nav

// Context is a fetch context. Only the newest request issued for a context
// may apply its result.
type Context string

const (
	ContextStorms  Context = "storms"
	ContextDetail  Context = "detail"
	ContextCity    Context = "city"
	ContextGrid    Context = "grid"
	ContextInspect Context = "inspect"
)

// Contexts lists every fetch context.
var Contexts = []Context{ContextStorms, ContextDetail, ContextCity, ContextGrid, ContextInspect}

// Token identifies one issued request.
type Token uint64

// Tokens issues monotonically increasing request tokens. It is owned by a
// single goroutine.
type Tokens struct {
	last   Token
	latest map[Context]Token
}

// NewTokens returns an empty token registry.
func NewTokens() *Tokens {
	return &Tokens{latest: make(map[Context]Token)}
}

// Issue returns a fresh token for c, superseding any earlier one.
func (t *Tokens) Issue(c Context) Token {
	t.last++
	t.latest[c] = t.last
	return t.last
}

// Current reports whether tok is still the newest token for c.
func (t *Tokens) Current(c Context, tok Token) bool {
	latest, ok := t.latest[c]
	return ok && latest == tok
}

// Invalidate supersedes any outstanding request for c.
func (t *Tokens) Invalidate(c Context) {
	t.last++
	t.latest[c] = t.last
}

// InvalidateAll supersedes every outstanding request.
func (t *Tokens) InvalidateAll() {
	for _, c := range Contexts {
		t.Invalidate(c)
	}
}

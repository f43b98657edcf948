package llm

import "context"

// Streamer is implemented by providers that can stream completion deltas.
type Streamer interface {
	Stream(ctx context.Context, req Request, onDelta func(string) error) error
}

// unwrapper is implemented by provider decorators.
type unwrapper interface {
	Unwrap() Provider
}

// AsStreamer returns the outermost Streamer in the decorator chain rooted
// at p. Decorators that stream only forward to a streaming provider
// beneath them, so a decorator counts only when something under it
// streams. Decorators without Stream, such as retries, are skipped.
func AsStreamer(p Provider) (Streamer, bool) {
	if p == nil {
		return nil, false
	}
	u, decorated := p.(unwrapper)
	if !decorated {
		s, ok := p.(Streamer)
		return s, ok
	}
	inner, ok := AsStreamer(u.Unwrap())
	if !ok {
		return nil, false
	}
	if s, ok := p.(Streamer); ok {
		return s, true
	}
	return inner, true
}

// streamInner forwards a Stream call from a decorator to the chain below.
func streamInner(ctx context.Context, inner Provider, req Request, onDelta func(string) error) error {
	s, ok := AsStreamer(inner)
	if !ok {
		return &ErrProviderUnavailable{Err: errStreamUnsupported}
	}
	return s.Stream(ctx, req, onDelta)
}

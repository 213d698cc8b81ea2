package logging

import "github.com/samber/oops"

// ErrorAttrs turns err into key–value pairs for Logger calls. For oops errors
// the code and the attached context are included alongside the message.
//
//	log.Error(ctx, "signup failed", logging.ErrorAttrs(err)...)
func ErrorAttrs(err error) []any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err.Error()}
	}
	attrs := []any{"error", oopsErr.Error()}
	switch code := any(oopsErr.Code()).(type) {
	case nil:
	case string:
		if code != "" {
			attrs = append(attrs, "code", code)
		}
	default:
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}

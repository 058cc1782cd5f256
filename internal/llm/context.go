package llm

import "context"

type purposeKey struct{}

// UnknownPurpose labels calls made without WithPurpose.
const UnknownPurpose = "unknown"

// WithPurpose tags LLM calls made with ctx so recorded events can be grouped.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return UnknownPurpose
}

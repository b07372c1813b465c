package observability

import (
	"context"
	"testing"
)

func TestSpanFromContext_Empty(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("Expected nil span from empty context, got %v", span)
	}
}

func TestSpanFromContext_WithSpan(t *testing.T) {
	_, span := Nop().StartSpan(context.Background(), "test")
	ctx := ContextWithSpan(context.Background(), span)

	if got := SpanFromContext(ctx); got != span {
		t.Errorf("SpanFromContext() = %v, want %v", got, span)
	}
}

func TestObserverFromContext(t *testing.T) {
	if p := ObserverFromContext(context.Background()); p != nil {
		t.Errorf("Expected nil observer from empty context, got %v", p)
	}

	p := Nop()
	ctx := ContextWithObserver(context.Background(), p)
	if got := ObserverFromContext(ctx); got != p {
		t.Errorf("ObserverFromContext() = %v, want %v", got, p)
	}
}

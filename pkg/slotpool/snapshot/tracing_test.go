package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestArchiveRestore_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)

	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	id := NewID()
	require.NoError(t, Archive(ctx, store, id, "word-counts", []int{1, 2}))
	_, err := Restore[int](ctx, store, id, "word-counts")
	require.NoError(t, err)

	// A failed restore must end its span with error status.
	_, err = Restore[int](ctx, store, "missing", "missing")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, "slotpool.snapshot.archive", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, "slotpool.snapshot.restore", spans[1].Name())
	assert.Equal(t, codes.Ok, spans[1].Status().Code)

	assert.Equal(t, "slotpool.snapshot.restore", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)

	var foundPool bool
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "pool" {
			foundPool = true
			assert.Equal(t, "word-counts", attr.Value.AsString())
		}
	}
	assert.True(t, foundPool, "archive span should carry the pool attribute")
}

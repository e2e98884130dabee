package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textLoader(text string) Loader {
	return func(context.Context) (RawDocument, error) {
		return NewDocument(text, len(text)), nil
	}
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	engine := NewEngine(nil)

	var items []BatchItem
	for i := range 20 {
		name := fmt.Sprintf("resume-%02d", i)
		items = append(items, BatchItem{Name: name, Load: textLoader("Name: " + name)})
	}

	results, err := engine.AnalyzeBatch(context.Background(), items, 3)
	require.NoError(t, err)
	require.Len(t, results, len(items))

	for i, r := range results {
		assert.Equal(t, items[i].Name, r.Name)
		require.NotNil(t, r.Result)
		assert.Equal(t, items[i].Name, r.Result.Profile.Name)
	}
}

func TestAnalyzeBatchItemFailure(t *testing.T) {
	engine := NewEngine(nil)
	loadErr := errors.New("unreadable file")

	items := []BatchItem{
		{Name: "good.txt", Load: textLoader("Python developer")},
		{Name: "bad.pdf", Load: func(context.Context) (RawDocument, error) { return RawDocument{}, loadErr }},
		{Name: "also-good.txt", Load: textLoader("React")},
	}

	results, err := engine.AnalyzeBatch(context.Background(), items, 0)
	require.NoError(t, err)

	assert.NotNil(t, results[0].Result)
	assert.Nil(t, results[1].Result)
	assert.ErrorIs(t, results[1].Err, loadErr)
	assert.Equal(t, "unreadable file", results[1].Error)
	assert.NotNil(t, results[2].Result)
}

func TestAnalyzeBatchConcurrencyLimit(t *testing.T) {
	engine := NewEngine(nil)
	var inFlight, peak atomic.Int32

	load := func(context.Context) (RawDocument, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return NewDocument("text", 4), nil
	}

	items := make([]BatchItem, 12)
	for i := range items {
		items[i] = BatchItem{Name: fmt.Sprint(i), Load: load}
	}

	_, err := engine.AnalyzeBatch(context.Background(), items, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzeBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []BatchItem{{Name: "a", Load: textLoader("a")}}
	_, err := NewEngine(nil).AnalyzeBatch(ctx, items, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

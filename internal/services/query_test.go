package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefly/briefly-backend/internal/core"
	"github.com/briefly/briefly-backend/internal/providers"
)

func TestQueryPageBounds(t *testing.T) {
	stub := &providers.StubProvider{Response: "answer"}
	engine, st, _ := newTestEngine(stub, defaultEngineConfig())
	id := st.Create(testDocument(10)).Document.SessionID

	for _, page := range []int{0, -1, 99} {
		_, err := engine.QueryPage(context.Background(), id, page, "what is this?")
		var oor *core.PageOutOfRangeError
		require.ErrorAs(t, err, &oor, "page=%d", page)
		assert.Equal(t, 10, oor.TotalPages)
	}
	assert.EqualValues(t, 0, stub.Calls(), "out-of-range pages must not reach the provider")

	answer, err := engine.QueryPage(context.Background(), id, 10, "what is this?")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
}

func TestQueryBlockBounds(t *testing.T) {
	stub := &providers.StubProvider{Response: "answer"}
	engine, st, _ := newTestEngine(stub, defaultEngineConfig())
	id := st.Create(testDocument(10)).Document.SessionID

	_, err := engine.QueryBlock(context.Background(), id, 4, "summaric?")
	var oor *core.BlockOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 4, oor.TotalBlocks)
	assert.EqualValues(t, 0, stub.Calls())

	answer, err := engine.QueryBlock(context.Background(), id, 3, "what's in the last block?")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)
}

func TestQueriesAreNeverCached(t *testing.T) {
	stub := &providers.StubProvider{Response: "fresh every time"}
	engine, st, _ := newTestEngine(stub, defaultEngineConfig())
	sess := st.Create(testDocument(6))
	id := sess.Document.SessionID

	for i := 0; i < 3; i++ {
		_, err := engine.QueryBlock(context.Background(), id, 0, "same question")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, stub.Calls(), "block queries must re-invoke the provider every time")

	_, ok := sess.CachedSummary(0)
	assert.False(t, ok, "queries must not populate the summary cache")
}

func TestQueryRequiresSession(t *testing.T) {
	stub := &providers.StubProvider{}
	engine, _, _ := newTestEngine(stub, defaultEngineConfig())

	var snf *core.SessionNotFoundError

	_, err := engine.QueryBlock(context.Background(), "missing", 0, "q")
	assert.ErrorAs(t, err, &snf)

	_, err = engine.QueryPage(context.Background(), "missing", 1, "q")
	assert.ErrorAs(t, err, &snf)
}

func TestGeneralQuery(t *testing.T) {
	stub := &providers.StubProvider{Response: "general answer"}
	engine, _, _ := newTestEngine(stub, defaultEngineConfig())

	answer, err := engine.GeneralQuery(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "general answer", answer)
	assert.EqualValues(t, 1, stub.Calls())
}

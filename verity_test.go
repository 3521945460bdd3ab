package verity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/verity"
	"github.com/soundprediction/verity/pkg/generator"
	"github.com/soundprediction/verity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore records executed queries and returns canned records.
type mockStore struct {
	records []types.RawRecord
	err     error
	queries []string
	closed  bool
}

func (m *mockStore) ExecuteQuery(_ context.Context, query string, _ map[string]any) ([]types.RawRecord, error) {
	m.queries = append(m.queries, query)
	return m.records, m.err
}

func (m *mockStore) Close(context.Context) error {
	m.closed = true
	return nil
}

// mockCompletion implements nlp.Client with a fixed reply.
type mockCompletion struct {
	reply  string
	err    error
	calls  int
	closed bool
}

func (m *mockCompletion) Chat(_ context.Context, _ []types.Message, _ *types.CompletionOptions) (*types.Response, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &types.Response{Content: m.reply}, nil
}

func (m *mockCompletion) Close() error {
	m.closed = true
	return nil
}

func scrapRecord(id, content string) types.RawRecord {
	return types.NewRawRecord([]string{"s"}, []any{&types.RawNode{
		Labels:     []string{types.ScrapLabel},
		Properties: map[string]any{"id": id, "content": content, "tags": []any{"nature"}},
	}})
}

func newClient(t *testing.T, store *mockStore, completion *mockCompletion) *verity.Client {
	t.Helper()
	client, err := verity.NewClient(store, generator.New(completion, generator.Config{}, nil), nil)
	require.NoError(t, err)
	return client
}

func TestSearchEndToEnd(t *testing.T) {
	query := `MATCH (s:Scrap) WHERE s.content CONTAINS "nature" RETURN s LIMIT 10`
	completion := &mockCompletion{reply: "Here you go:\n```cypher\n" + query + "\n```\nThis returns scraps mentioning nature."}
	store := &mockStore{records: []types.RawRecord{
		scrapRecord("s-1", "nature reclaims the railway"),
		scrapRecord("s-2", "the nature of grief"),
	}}
	client := newClient(t, store, completion)

	res, err := client.Search(context.Background(), "find scraps about nature")
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "s-1", res.Results[0].ID)
	assert.Equal(t, "s-2", res.Results[1].ID)
	assert.Equal(t, query, res.QueryInfo.Query)
	assert.Equal(t, "This returns scraps mentioning nature.", res.QueryInfo.ExplanationText())
	assert.Equal(t, completion.reply, res.QueryInfo.RawResponse)
	assert.Equal(t, []string{query}, store.queries)
}

func TestSearchWhitespacePrompt(t *testing.T) {
	for _, prompt := range []string{"", " ", "\t\n "} {
		completion := &mockCompletion{reply: "MATCH (s) RETURN s"}
		store := &mockStore{}
		client := newClient(t, store, completion)

		_, err := client.Search(context.Background(), prompt)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.Equal(t, 0, completion.calls)
		assert.Empty(t, store.queries)
	}
}

func TestSearchRejectsUnsafeQueries(t *testing.T) {
	queries := []string{
		"MATCH (s:Scrap) DETACH DELETE s RETURN 1",
		"match (s:Scrap) delete s return s",
		"MATCH (s:Scrap) SET s.content = 'x' RETURN s",
		"MERGE (s:Scrap {id: '1'}) RETURN s",
		"MATCH (s) REMOVE s.tags RETURN s",
		"DROP INDEX scrap_id",
		"CREATE INDEX foo FOR (s:Scrap) ON (s.id)",
		"Create Constraint c FOR (s:Scrap) REQUIRE s.id IS UNIQUE",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			store := &mockStore{}
			client := newClient(t, store, &mockCompletion{reply: "```\n" + q + "\n```"})

			_, err := client.Search(context.Background(), "do something")
			assert.ErrorIs(t, err, types.ErrUnsafeQuery)
			assert.Empty(t, store.queries)
		})
	}
}

func TestSearchRequiresMatchAndReturn(t *testing.T) {
	store := &mockStore{}
	client := newClient(t, store, &mockCompletion{reply: "RETURN 1"})

	_, err := client.Search(context.Background(), "count")
	assert.ErrorIs(t, err, types.ErrUnsafeQuery)
	assert.Contains(t, err.Error(), "not read-only")
	assert.Empty(t, store.queries)
}

func TestSearchEmptyGeneratedQuery(t *testing.T) {
	store := &mockStore{}
	client := newClient(t, store, &mockCompletion{reply: "```cypher\n```"})

	_, err := client.Search(context.Background(), "anything")
	assert.ErrorIs(t, err, types.ErrGeneration)
	assert.Empty(t, store.queries)
}

func TestSearchGenerationFailure(t *testing.T) {
	store := &mockStore{}
	client := newClient(t, store, &mockCompletion{err: errors.New("401 unauthorized")})

	_, err := client.Search(context.Background(), "anything")
	require.ErrorIs(t, err, types.ErrGeneration)

	var se *types.SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.CategoryAuth, se.Category)
	assert.Empty(t, store.queries)
}

func TestSearchExecutionFailure(t *testing.T) {
	store := &mockStore{err: errors.New("Invalid input 'RETRUN': expected RETURN")}
	client := newClient(t, store, &mockCompletion{reply: "MATCH (s:Scrap) RETURN s"})

	res, err := client.Search(context.Background(), "anything")
	assert.Nil(t, res)
	require.ErrorIs(t, err, types.ErrExecution)
	assert.Contains(t, err.Error(), "Invalid input 'RETRUN'")
	assert.Equal(t, 500, types.HTTPStatus(err))
}

func TestExecuteValidated(t *testing.T) {
	store := &mockStore{records: []types.RawRecord{scrapRecord("s-1", "x")}}
	client := newClient(t, store, &mockCompletion{})

	scraps, err := client.ExecuteValidated(context.Background(), "MATCH (s:Scrap) RETURN s LIMIT 1")
	require.NoError(t, err)
	assert.Len(t, scraps, 1)

	_, err = client.ExecuteValidated(context.Background(), "MATCH (s) DELETE s RETURN s")
	assert.ErrorIs(t, err, types.ErrUnsafeQuery)

	_, err = client.ExecuteValidated(context.Background(), "  ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestScrapReads(t *testing.T) {
	store := &mockStore{records: []types.RawRecord{scrapRecord("s-1", "x")}}
	client := newClient(t, store, &mockCompletion{})
	ctx := context.Background()

	scrap, err := client.GetScrap(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", scrap.ID)

	listed, err := client.ListScraps(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	found, err := client.SearchScraps(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	related, err := client.GetRelatedScraps(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestNewClientValidation(t *testing.T) {
	_, err := verity.NewClient(nil, generator.New(&mockCompletion{}, generator.Config{}, nil), nil)
	assert.Error(t, err)

	_, err = verity.NewClient(&mockStore{}, nil, nil)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	store := &mockStore{}
	completion := &mockCompletion{}
	client := newClient(t, store, completion)

	require.NoError(t, client.Close(context.Background()))
	assert.True(t, store.closed)
	assert.True(t, completion.closed)
}

func TestMetadataDecoding(t *testing.T) {
	rec := types.NewRawRecord([]string{"s"}, []any{&types.RawNode{
		Labels:     []string{types.ScrapLabel},
		Properties: map[string]any{"id": "s-1", "content": "x", "metadata": "{tone: sad}"},
	}})

	tests := []struct {
		name string
		opts []verity.ClientOption
		want any
	}{
		{name: "strict by default", want: "{tone: sad}"},
		{name: "repair enabled", opts: []verity.ClientOption{verity.WithMetadataRepair(true)}, want: map[string]any{"tone": "sad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{records: []types.RawRecord{rec}}
			client, err := verity.NewClient(store, generator.New(&mockCompletion{}, generator.Config{}, nil), nil, tt.opts...)
			require.NoError(t, err)

			res, err := client.ExecuteValidated(context.Background(), "MATCH (s:Scrap) RETURN s")
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, tt.want, res[0].Metadata)

			scrap, err := client.GetScrap(context.Background(), "s-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, scrap.Metadata)
		})
	}
}

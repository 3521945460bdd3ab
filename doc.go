// Package verity searches a graph of writing scraps with natural-language
// prompts.
//
// A prompt is translated into a Cypher query by a language model, the query
// is checked to be read-only, executed against the graph store, and the
// returned records are flattened into Scrap values.
//
// # Basic Usage
//
//	store, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close(ctx)
//
//	llmClient, err := nlp.NewOpenAIClient(nlp.NewLLMConfig().WithAPIKey(apiKey))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gen := generator.New(llmClient, generator.DefaultConfig(), logger)
//	client, err := verity.NewClient(store, gen, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Search(ctx, "find scraps about nature")
//
// # Errors
//
// Every failure is a *types.SearchError. Use errors.Is with the sentinels in
// pkg/types to branch on the kind:
//
//	switch {
//	case errors.Is(err, types.ErrUnsafeQuery):
//		// the generated query was not read-only
//	case errors.Is(err, types.ErrGeneration):
//		// the completion service failed
//	}
//
// Nothing is cached or retried here. Callers that want either wrap Search.
package verity

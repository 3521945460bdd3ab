// Package driver provides the read-only graph store used by verity.
//
// Neo4jDriver executes Cypher against Neo4j in read-access sessions and
// flattens driver values into types.RawRecord, so callers never see
// neo4j-go-driver types. ScrapStore layers the canned scrap lookups on top
// of any QueryExecutor.
//
// # Usage
//
//	d, err := driver.NewNeo4jDriver(uri, username, password, "neo4j")
//	if err != nil {
//		return err
//	}
//	defer d.Close(ctx)
//
//	records, err := d.ExecuteQuery(ctx, "MATCH (s:Scrap) RETURN s LIMIT 5", nil)
//
// # Thread Safety
//
// Neo4jDriver is safe for concurrent use. Each call opens and closes its own
// session; connections are pooled by the underlying driver.
//
// # Type Helpers
//
// The As* helpers perform checked type assertions on driver values, and
// ConvertValue turns nodes, lists and maps into their flattened forms.
package driver

package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soundprediction/verity/pkg/types"
)

// Neo4jDriver implements GraphStore for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
	}, nil
}

// Database returns the target database name.
func (n *Neo4jDriver) Database() string {
	return n.database
}

// ExecuteQuery runs query in a read transaction on a fresh session and
// returns every record flattened. Write clauses are rejected by the server
// because the session is opened in read access mode.
func (n *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]types.RawRecord, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]types.RawRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, RecordToRaw(rec))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	records, ok := result.([]types.RawRecord)
	if !ok {
		return nil, NewTypeConversionError("[]types.RawRecord", fmt.Sprintf("%T", result), "")
	}
	return records, nil
}

// VerifyConnectivity checks that the server is reachable with the
// configured credentials.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}

// Close releases the underlying connection pool.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

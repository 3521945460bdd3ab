package driver_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/soundprediction/verity/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNeo4jUnavailable skips the test unless NEO4J_URI points at a
// reachable server.
func skipIfNeo4jUnavailable(t *testing.T) *driver.Neo4jDriver {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}

	d, err := driver.NewNeo4jDriver(uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"), os.Getenv("NEO4J_DATABASE"))
	if err != nil {
		t.Skipf("Neo4j not available at %s: %v", uri, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.VerifyConnectivity(ctx); err != nil {
		d.Close(context.Background())
		t.Skipf("Neo4j connection failed: %v", err)
	}

	t.Cleanup(func() { d.Close(context.Background()) })
	return d
}

func TestNeo4jExecuteQuery(t *testing.T) {
	d := skipIfNeo4jUnavailable(t)
	ctx := context.Background()

	records, err := d.ExecuteQuery(ctx, "RETURN 1 AS one, 'x' AS letter", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"one", "letter"}, records[0].Keys)
	assert.Equal(t, int64(1), records[0].Values["one"])
}

func TestNeo4jRejectsWrites(t *testing.T) {
	d := skipIfNeo4jUnavailable(t)

	_, err := d.ExecuteQuery(context.Background(), "CREATE (n:VerityProbe) RETURN n", nil)
	assert.Error(t, err)
}

func TestNeo4jListScraps(t *testing.T) {
	d := skipIfNeo4jUnavailable(t)

	scraps, err := driver.NewScrapStore(d, nil).ListScraps(context.Background(), 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(scraps), 3)
}

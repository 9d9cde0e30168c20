package typesense

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/ayucare/pkg/config"
)

func TestDoctorsSchema(t *testing.T) {
	schema := DoctorsSchema()

	assert.Equal(t, DoctorsCollection, schema.Name)
	fields := map[string]string{}
	for _, f := range schema.Fields {
		fields[f.Name] = f.Type
	}
	assert.Equal(t, "string", fields["specialty"])
	assert.Equal(t, "bool", fields["available"])
	assert.Equal(t, "float", fields["rating"])
	require.NotNil(t, schema.DefaultSortingField)
	assert.Equal(t, "created_at", *schema.DefaultSortingField)
}

func TestClient_Integration(t *testing.T) {
	url := os.Getenv("TYPESENSE_TEST_URL")
	if url == "" {
		t.Skip("TYPESENSE_TEST_URL not set")
	}

	cfg := &config.Config{
		Typesense: config.TypesenseConfig{
			URL:    url,
			APIKey: os.Getenv("TYPESENSE_API_KEY"),
		},
	}

	client, err := NewClient(context.Background(), &cfg.Typesense)
	require.NoError(t, err)

	assert.NoError(t, client.InitSchema(context.Background()))
	// second call sees the existing collection
	assert.NoError(t, client.InitSchema(context.Background()))
}

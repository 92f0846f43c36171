package flatfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	servers := []model.StatisticsServer{
		{Name: "Primary", WebURL: "https://a.example/stats", DatabaseName: "db1", Username: "stats"},
		{Name: "No user", WebURL: "http://localhost:8080", DatabaseName: "local", Username: ""},
		{Name: "Spaces are fine", WebURL: "https://c.example/?q=1;x=2", DatabaseName: "db 3", Username: "user name"},
	}

	for _, s := range servers {
		t.Run(s.Name, func(t *testing.T) {
			got, n, ok := decodeRecord(encodeRecord(s))
			require.True(t, ok)
			assert.Equal(t, fieldCount, n)
			assert.Equal(t, s, got)
		})
	}

	decoded, err := decodeRecords(encodeRecords(servers))
	require.NoError(t, err)
	assert.Equal(t, servers, decoded)
}

func TestEncodeRecords_NoLeadingOrTrailingNewline(t *testing.T) {
	assert.Equal(t, "", encodeRecords(nil))
	assert.Equal(t, "a,b,c,d", encodeRecords([]model.StatisticsServer{{Name: "a", WebURL: "b", DatabaseName: "c", Username: "d"}}))
	assert.Equal(t, "a,b,c,\ne,f,g,h", encodeRecords([]model.StatisticsServer{
		{Name: "a", WebURL: "b", DatabaseName: "c"},
		{Name: "e", WebURL: "f", DatabaseName: "g", Username: "h"},
	}))
}

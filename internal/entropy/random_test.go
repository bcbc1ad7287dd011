package entropy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSeedRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := CryptoSeed()
		assert.GreaterOrEqual(t, s, int64(1))
		assert.LessOrEqual(t, s, int64(maxSeed))
	}
}

func TestSourceWithoutKey(t *testing.T) {
	s := NewSource("")
	assert.False(t, s.Enabled())
	assert.NotZero(t, s.Seed(context.Background()))

	var nilSource *Source
	assert.False(t, nilSource.Enabled())
}

func fakeRandomOrg(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params struct {
				APIKey string `json:"apiKey"`
			} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generateIntegers", req.Method)
		assert.Equal(t, "key", req.Params.APIKey)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSourceRemote(t *testing.T) {
	srv := fakeRandomOrg(t, `{"result":{"random":{"data":[4242]}}}`)
	s := NewSource("key")
	s.endpoint = srv.URL

	assert.True(t, s.Enabled())
	assert.Equal(t, int64(4242), s.Seed(context.Background()))
}

func TestSourceRemoteFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"api error", `{"error":{"message":"bad key"}}`},
		{"empty", `{"result":{"random":{"data":[]}}}`},
		{"out of range", `{"result":{"random":{"data":[0]}}}`},
		{"garbage", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeRandomOrg(t, tt.reply)
			s := NewSource("key")
			s.endpoint = srv.URL

			_, err := s.fetch(context.Background())
			assert.Error(t, err)

			seed := s.Seed(context.Background())
			assert.GreaterOrEqual(t, seed, int64(1), "falls back to crypto/rand")
		})
	}
}

// Package entropy draws simulation seeds when none is configured. It asks
// random.org when an API key is set and falls back to crypto/rand.
package entropy

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.random.org/json-rpc/4/invoke"
	maxSeed         = 1_000_000_000
)

// Source produces non-zero seeds.
type Source struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSource creates a seed source. An empty apiKey uses crypto/rand only.
func NewSource(apiKey string) *Source {
	return &Source{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled returns true if the source will ask random.org.
func (s *Source) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// Seed returns a seed in [1, 1e9]. Remote failures are logged and fall back
// to crypto/rand.
func (s *Source) Seed(ctx context.Context) int64 {
	if s.Enabled() {
		seed, err := s.fetch(ctx)
		if err == nil {
			slog.Debug("seed drawn from random.org", "seed", seed)
			return seed
		}
		slog.Warn("random.org unavailable, using crypto/rand", "error", err)
	}
	return CryptoSeed()
}

func (s *Source) fetch(ctx context.Context) (int64, error) {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": s.apiKey,
			"n":      1,
			"min":    1,
			"max":    maxSeed,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("api error: %s", result.Error.Message)
	}
	if len(result.Result.Random.Data) == 0 {
		return 0, fmt.Errorf("empty response")
	}

	seed := result.Result.Random.Data[0]
	if seed < 1 || seed > maxSeed {
		return 0, fmt.Errorf("seed %d out of range", seed)
	}
	return seed, nil
}

// CryptoSeed returns a seed in [1, 1e9] from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()%maxSeed + 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:])%maxSeed) + 1
}

package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ChunkManifest describes how the remote service split a large result into
// sequentially named files sharing a base download URL. The file-name order
// is the order of the reassembled output.
type ChunkManifest struct {
	BaseDownloadURL string   `json:"base_download_url"`
	ChunkFileNames  []string `json:"chunk_file_names"`
}

// AssembleChunks fetches every chunk file in manifest order and concatenates
// the elements of each chunk's JSON array into one flat sequence. Fetches
// are strictly sequential; the service expects chunk downloads not to be
// hammered in parallel, and callers rely on the output order matching lap or
// event order. Any fetch or decode failure aborts the assembly.
func (c *RacingClient) AssembleChunks(ctx context.Context, manifest ChunkManifest) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0)

	for _, name := range manifest.ChunkFileNames {
		chunkURL := manifest.BaseDownloadURL + name

		resp, err := c.http.Get(ctx, chunkURL, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch chunk %s: %w", name, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read chunk %s: %w", name, err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &ResolveError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		var elements []json.RawMessage
		if err := json.Unmarshal(body, &elements); err != nil {
			return nil, fmt.Errorf("decode chunk %s: %w", name, err)
		}

		out = append(out, elements...)
	}

	return out, nil
}

// extractManifest walks the document down the given key path and decodes the
// chunk manifest found there. A JSON null at the manifest position decodes
// to an empty manifest, which assembles to an empty result.
func extractManifest(doc json.RawMessage, path []string) (ChunkManifest, error) {
	node := doc
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(node, &obj); err != nil {
			return ChunkManifest{}, fmt.Errorf("chunk manifest: %w", err)
		}
		next, ok := obj[key]
		if !ok {
			return ChunkManifest{}, fmt.Errorf("chunk manifest: missing %q", key)
		}
		node = next
	}

	var manifest ChunkManifest
	if err := json.Unmarshal(node, &manifest); err != nil {
		return ChunkManifest{}, fmt.Errorf("chunk manifest: %w", err)
	}
	return manifest, nil
}

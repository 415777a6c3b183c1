package normalize

import (
	"strings"

	llmclient "boxoffice/internal/llmClient"
	"boxoffice/internal/types"
)

// Aggregate collects web citations in input order. Chunks without a web
// source, or with neither title nor URI, are skipped. With dedupe only the
// first citation per URI is kept.
func Aggregate(chunks []llmclient.GroundingChunk, dedupe bool) []types.Citation {
	out := make([]types.Citation, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for _, ch := range chunks {
		if ch.Web == nil {
			continue
		}
		title, uri := strings.TrimSpace(ch.Web.Title), strings.TrimSpace(ch.Web.URI)
		if title == "" && uri == "" {
			continue
		}
		if dedupe && uri != "" {
			if _, dup := seen[uri]; dup {
				continue
			}
			seen[uri] = struct{}{}
		}
		out = append(out, types.Citation{Title: title, URI: uri})
	}
	return out
}

package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Completer abstracts the chat model: one prompt in, one text completion out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const rewritePrompt = `You are a helpful assistant that improves search queries.
Rewrite the following query to be more specific and detailed so it retrieves
more relevant passages from a document collection. Reply with the rewritten
query only, nothing else.

Original query: %s`

const decomposePrompt = `You are a helpful assistant that breaks down complex questions.
Decompose the following query into %d simpler sub-queries that together cover
the original question. Reply with a numbered list, one sub-query per line,
and nothing else.

Original query: %s`

const hypotheticalPrompt = `Write a short passage (2-4 sentences) that would be a plausible
answer to the following question, as if quoted from a reference document.
Reply with the passage only, nothing else.

Question: %s`

// Rewrite asks the model for a retrieval-friendly reformulation of the query.
// Falls back to the original query if the model returns nothing usable.
func Rewrite(ctx context.Context, c Completer, query string) (string, error) {
	out, err := c.Complete(ctx, fmt.Sprintf(rewritePrompt, query))
	if err != nil {
		return "", fmt.Errorf("rewriting query: %w", err)
	}

	out = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`))
	if out == "" {
		return query, nil
	}
	return out, nil
}

// Decompose asks the model to split the query into n simpler sub-queries.
func Decompose(ctx context.Context, c Completer, query string, n int) ([]string, error) {
	if n <= 0 {
		return nil, errors.New("rewrite: sub-query count must be positive")
	}

	out, err := c.Complete(ctx, fmt.Sprintf(decomposePrompt, n, query))
	if err != nil {
		return nil, fmt.Errorf("decomposing query: %w", err)
	}

	subs := ParseSubQueries(out)
	if len(subs) == 0 {
		// Model ignored the format; retrieve with the original query instead.
		return []string{query}, nil
	}
	return subs, nil
}

// Hypothetical generates a hypothetical answer passage for the query. The
// passage is embedded in place of the query so retrieval matches
// document-shaped text against document-shaped text.
func Hypothetical(ctx context.Context, c Completer, query string) (string, error) {
	out, err := c.Complete(ctx, fmt.Sprintf(hypotheticalPrompt, query))
	if err != nil {
		return "", fmt.Errorf("generating hypothetical passage: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return query, nil
	}
	return out, nil
}

// ParseSubQueries extracts sub-queries from a model reply formatted as a
// numbered or bulleted list. Numbering, bullets, and surrounding quotes are
// stripped; blank lines and bare list headers are dropped.
func ParseSubQueries(raw string) []string {
	var subs []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = stripListMarker(line)
		line = strings.TrimSpace(strings.Trim(line, `"`))

		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}

		subs = append(subs, line)
	}

	return subs
}

// stripListMarker removes a leading "1.", "2)", "-" or "*" marker.
func stripListMarker(line string) string {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return strings.TrimSpace(line[1:])
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}

	return line
}

package secondme

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"pasarloak/pkg/errors"
)

// streamChunk is one SSE data frame from the act endpoint. Token deltas
// live at choices[0].delta.content.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// actStream posts a prompt plus an output-shape directive to the agent's
// act endpoint and reassembles the streamed reply into one string. The
// stream is a sequence of "data: <json>" lines terminated by the
// "data: [DONE]" sentinel; lines that are not valid JSON are skipped.
func (c *Client) actStream(ctx context.Context, accessToken, message, actionControl string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"message":       message,
		"actionControl": actionControl,
	})
	if err != nil {
		return "", errors.Internal("Failed to marshal act request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/api/secondme/act/stream", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Internal("Failed to build act request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.AgentUnavailable("SecondMe act endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.AgentUnavailable(fmt.Sprintf("SecondMe act endpoint returned status %d", resp.StatusCode), nil)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimSpace(line[len("data: "):])
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.AgentUnavailable("SecondMe act stream aborted", err)
	}

	return sb.String(), nil
}

// decodeReply parses the reassembled reply as a single JSON value. When
// direct parsing fails (truncation, wrapping prose) it retries on the
// first balanced {...} or [...] substring.
func decodeReply(raw string, v interface{}) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return errors.AgentBadReply("Agent returned an empty reply", nil)
	}

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if extracted, ok := extractBalanced(trimmed); ok {
		if err := json.Unmarshal([]byte(extracted), v); err == nil {
			return nil
		}
	}

	return errors.AgentBadReply("Agent reply is not valid JSON", nil)
}

// extractBalanced returns the first balanced JSON object or array found
// in s. Braces inside string literals are ignored.
func extractBalanced(s string) (string, bool) {
	start := -1
	var opener, closer byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			opener = s[i]
			closer = '}'
			if opener == '[' {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == opener:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

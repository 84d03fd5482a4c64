// Package ingest turns selected files into embeddable images and back.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"bistro/internal/model"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackMIME = "application/octet-stream"

// ErrNotDataURL is returned when a source string is not a data URL.
var ErrNotDataURL = errors.New("not a data url")

// Encode wraps raw file contents into a self-contained image record. Any byte
// stream is accepted; the MIME type is sniffed from the content.
func Encode(data []byte, filename string) model.Image {
	mt := fallbackMIME
	if len(data) > 0 {
		mt = mimetype.Detect(data).String()
		if i := strings.IndexByte(mt, ';'); i >= 0 {
			mt = strings.TrimSpace(mt[:i])
		}
	}
	return model.Image{
		ID:  model.NewID(),
		Src: "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data),
		Alt: filepath.Base(filename),
	}
}

type readResult struct {
	data []byte
	err  error
}

// ReadFile reads path and encodes it. It gives up when ctx is done, even if
// the read itself is still blocked.
func ReadFile(ctx context.Context, path string) (model.Image, error) {
	if err := ctx.Err(); err != nil {
		return model.Image{}, err
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return model.Image{}, fmt.Errorf("read %s: %w", filepath.Base(path), ctx.Err())
	case res := <-done:
		if res.err != nil {
			return model.Image{}, fmt.Errorf("read %s: %w", filepath.Base(path), res.err)
		}
		return Encode(res.data, path), nil
	}
}

// Decode splits a data URL into its MIME type and payload bytes.
func Decode(src string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}

	mt, isBase64 := strings.CutSuffix(meta, ";base64")
	if mt == "" {
		mt = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		return mt, data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mt, []byte(unescaped), nil
}

// Describe reports the MIME type and payload size of a data URL without
// decoding it. Sizes of percent-encoded payloads are approximate.
func Describe(src string) (string, int) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", 0
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", 0
	}
	mt, isBase64 := strings.CutSuffix(meta, ";base64")
	if mt == "" {
		mt = "text/plain"
	}
	if isBase64 {
		n := base64.StdEncoding.DecodedLen(len(payload))
		n -= strings.Count(payload[max(0, len(payload)-2):], "=")
		return mt, n
	}
	return mt, len(payload)
}

// DecodeImage decodes the picture carried by a data URL. PNG, JPEG and GIF
// are understood.
func DecodeImage(src string) (image.Image, error) {
	_, data, err := Decode(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ExpandPaths splits user input into file paths. Separators are commas and
// whitespace; double quotes group a path containing spaces. A leading ~ is
// expanded and glob patterns are resolved. Duplicates are dropped.
func ExpandPaths(input string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, tok := range splitTokens(input) {
		tok = expandHome(tok)
		if strings.ContainsAny(tok, "*?[") {
			if matches, err := filepath.Glob(tok); err == nil && len(matches) > 0 {
				for _, m := range matches {
					add(m)
				}
				continue
			}
		}
		add(tok)
	}
	return out
}

func splitTokens(input string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range input {
		switch {
		case r == '"':
			inQuote = !inQuote
		case !inQuote && (r == ',' || r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

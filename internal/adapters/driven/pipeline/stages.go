package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

type usedTokenKey struct{}

// UsedToken returns the token the authorization stage attached to the
// request with this context, or "".
func UsedToken(ctx context.Context) string {
	token, _ := ctx.Value(usedTokenKey{}).(string)
	return token
}

// authorization reads the token at send time. Requests without a token are
// forwarded anonymously.
func (p *Pipeline) authorization(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if p.tokens == nil {
			return next.RoundTrip(req)
		}
		token, ok := p.tokens.Get()
		if !ok || token == "" {
			return next.RoundTrip(req)
		}

		ctx := context.WithValue(req.Context(), usedTokenKey{}, token)
		req = req.Clone(ctx)
		req.Header.Set(HeaderAuthorization, "token "+token)
		return next.RoundTrip(req)
	})
}

// conditional serves and revalidates GET /search/repositories responses.
func (p *Pipeline) conditional(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if p.etags == nil || p.responses == nil || !cacheable(req) {
			return next.RoundTrip(req)
		}

		ctx := req.Context()
		key := cacheKey(req)

		stored, hasBody, err := p.responses.Get(ctx, key)
		if err != nil {
			p.log.WarnContext(ctx, "response cache read failed", slog.String("key", key), slog.String("error", err.Error()))
			hasBody = false
		}
		if hasBody && stored.Fresh(p.now()) {
			p.countCache(ctx, "fresh")
			return replay(req, stored, nil), nil
		}

		// An ETag is only useful with a body to replay on 304.
		if hasBody {
			etag, ok, err := p.etags.Get(ctx, key)
			if err != nil {
				p.log.WarnContext(ctx, "etag cache read failed", slog.String("key", key), slog.String("error", err.Error()))
			}
			if ok && etag != "" {
				req = req.Clone(ctx)
				req.Header.Set(HeaderIfNoneMatch, etag)
			}
		}

		resp, err := next.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusNotModified && hasBody:
			drain(resp)
			p.recordETag(ctx, key, resp)
			if err := p.responses.Touch(ctx, key, p.now()); err != nil {
				p.log.WarnContext(ctx, "response cache touch failed", slog.String("key", key), slog.String("error", err.Error()))
			}
			p.countCache(ctx, "revalidated")
			return replay(req, stored, resp.Header), nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("reading response body: %w", err)
			}
			resp.Body = io.NopCloser(bytes.NewReader(body))

			err = p.responses.Put(ctx, &driven.StoredResponse{
				Key:        key,
				StatusCode: resp.StatusCode,
				Header:     resp.Header.Clone(),
				Body:       body,
				StoredAt:   p.now(),
				MaxAge:     parseMaxAge(resp.Header.Get(HeaderCacheControl)),
			})
			if err != nil {
				// Without the body the ETag could never be replayed.
				p.log.WarnContext(ctx, "response cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			} else {
				p.recordETag(ctx, key, resp)
			}
			p.countCache(ctx, "miss")
		}
		return resp, nil
	})
}

func (p *Pipeline) recordETag(ctx context.Context, key string, resp *http.Response) {
	etag := resp.Header.Get(HeaderETag)
	if etag == "" {
		return
	}
	if err := p.etags.Put(ctx, key, etag); err != nil {
		p.log.WarnContext(ctx, "etag cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (p *Pipeline) countCache(ctx context.Context, result string) {
	if p.cacheResults != nil {
		p.cacheResults.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}

// cacheControl stamps the freshness lifetime on cacheable responses.
func (p *Pipeline) cacheControl(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil || !cacheable(req) {
			return resp, err
		}
		resp.Header.Set(HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(p.maxAge/time.Second)))
		return resp, nil
	})
}

// authFailure invalidates the token a rejected request carried. The
// response is returned unchanged.
func (p *Pipeline) authFailure(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
			return resp, nil
		}

		ctx := req.Context()
		used := UsedToken(ctx)
		if used == "" || p.tokens == nil {
			return resp, nil
		}
		if p.tokens.Invalidate(ctx, used) {
			p.log.WarnContext(ctx, "token rejected, session cleared",
				slog.Int("status", resp.StatusCode),
				slog.String("path", req.URL.Path))
			if p.invalidations != nil {
				p.invalidations.Add(ctx, 1, metric.WithAttributes(attribute.Int("http.response.status_code", resp.StatusCode)))
			}
		}
		return resp, nil
	})
}

// transport throttles, then performs the round trip. Network failures are
// wrapped as transport errors.
func (p *Pipeline) transport(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if err := p.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
		resp, err := next.RoundTrip(req)
		if err != nil {
			return nil, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
		}
		p.limiter.UpdateFromResponse(resp)
		return resp, nil
	})
}

// replay builds a 200-class response from a stored one. Headers from a 304
// revalidation, if any, refresh the stored headers.
func replay(req *http.Request, stored *driven.StoredResponse, refreshed http.Header) *http.Response {
	header := stored.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	for k, v := range refreshed {
		if k == "Content-Length" {
			continue
		}
		header[k] = v
	}
	header.Set(HeaderFromCache, "true")
	header.Set("Content-Length", strconv.Itoa(len(stored.Body)))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", stored.StatusCode, http.StatusText(stored.StatusCode)),
		StatusCode:    stored.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(stored.Body)),
		ContentLength: int64(len(stored.Body)),
		Request:       req,
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// parseMaxAge extracts max-age from a Cache-Control value.
func parseMaxAge(value string) time.Duration {
	for _, directive := range strings.Split(value, ",") {
		name, arg, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		seconds, err := strconv.Atoi(strings.Trim(arg, `"`))
		if err != nil || seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	return 0
}

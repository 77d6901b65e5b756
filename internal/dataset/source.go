package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

// Options controls how a dataset source is read.
type Options struct {
	// Encoding of the file, EncodingLatin1 when empty.
	Encoding string

	// HTTPClient is used for URL sources. http.DefaultClient when nil.
	HTTPClient *http.Client

	// RetryDelay is the initial backoff between download attempts.
	RetryDelay time.Duration
}

const downloadAttempts = 3

type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}

// IsURL reports whether source should be downloaded rather than opened.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func open(ctx context.Context, source string, opts Options) (io.ReadCloser, error) {
	if !IsURL(source) {
		return os.Open(source)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	delay := opts.RetryDelay
	if delay == 0 {
		delay = time.Second
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return &statusError{Code: resp.StatusCode, Status: resp.Status}
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(downloadAttempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if !retry.IsRecoverable(err) {
				return false
			}
			var serr *statusError
			if errors.As(err, &serr) {
				return serr.Code/100 == 5
			}
			return ctx.Err() == nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

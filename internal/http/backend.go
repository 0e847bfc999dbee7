package http

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/spotify-client/internal/constants"
)

// Backend executes one HTTP exchange. It returns an error only when the
// exchange did not complete; status handling belongs to the Client.
type Backend interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPClientProvider is implemented by backends that can expose a standard
// *http.Client, e.g. for the token endpoint.
type HTTPClientProvider interface {
	HTTPClient() *http.Client
}

// BlockingBackend performs the exchange on the caller's goroutine through a
// retryablehttp client configured never to retry.
type BlockingBackend struct {
	client *retryablehttp.Client
}

// NewBlockingBackend creates a blocking backend. A zero timeout selects
// constants.DefaultHTTPTimeout.
func NewBlockingBackend(timeout time.Duration, logger Logger) *BlockingBackend {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.CheckRetry = func(_ context.Context, _ *http.Response, _ error) (bool, error) {
		return false, nil
	}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = timeout
	client.Logger = newLeveledLogger(logger)

	return &BlockingBackend{client: client}
}

// Send implements Backend.
func (b *BlockingBackend) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	retryableReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}

	return b.client.Do(retryableReq.WithContext(ctx))
}

// HTTPClient returns a standard client sharing this backend's transport.
func (b *BlockingBackend) HTTPClient() *http.Client {
	return b.client.StandardClient()
}

// Completion is the outcome of an exchange submitted to an AsyncBackend.
type Completion struct {
	Response *http.Response
	Err      error
}

// AsyncBackend dispatches every exchange on its own goroutine. Submit never
// blocks; Send waits for the completion or the context, whichever is first.
type AsyncBackend struct {
	client *http.Client
	wg     sync.WaitGroup
}

// NewAsyncBackend creates an async backend. A zero timeout selects
// constants.DefaultHTTPTimeout.
func NewAsyncBackend(timeout time.Duration) *AsyncBackend {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	return &AsyncBackend{client: &http.Client{Timeout: timeout}}
}

// Submit starts the exchange and returns a channel receiving exactly one
// Completion.
func (b *AsyncBackend) Submit(req *http.Request) <-chan Completion {
	done := make(chan Completion, 1)

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		defer close(done)

		resp, err := b.client.Do(req) //nolint:bodyclose // ownership passes to the receiver
		done <- Completion{Response: resp, Err: err}
	}()

	return done
}

// Send implements Backend. When ctx ends first the exchange is abandoned and
// its response, if any, is drained and closed in the background.
func (b *AsyncBackend) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	done := b.Submit(req.WithContext(ctx))

	select {
	case completion := <-done:
		return completion.Response, completion.Err
	case <-ctx.Done():
		go discard(done)

		return nil, ctx.Err()
	}
}

// Wait blocks until every submitted exchange has completed.
func (b *AsyncBackend) Wait() {
	b.wg.Wait()
}

// HTTPClient returns the client exchanges are performed with.
func (b *AsyncBackend) HTTPClient() *http.Client {
	return b.client
}

func discard(done <-chan Completion) {
	completion := <-done
	if completion.Response != nil {
		_, _ = io.Copy(io.Discard, completion.Response.Body)
		_ = completion.Response.Body.Close()
	}
}

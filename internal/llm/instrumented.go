package llm

import (
	"context"
	"time"
)

// Observer receives one record per upstream call.
type Observer interface {
	ObserveLLM(stage string, d time.Duration, errType string)
}

type instrumentedClient struct {
	Client
	observer Observer
}

// Instrument reports latency and error type of every call to observer.
func Instrument(c Client, observer Observer) Client {
	if c == nil || observer == nil {
		return c
	}
	return &instrumentedClient{Client: c, observer: observer}
}

func (c *instrumentedClient) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := c.Client.Complete(ctx, req)

	errType := ""
	if err != nil {
		errType = string(GetErrorType(err))
	}
	c.observer.ObserveLLM(req.Stage, time.Since(start), errType)
	return out, err
}

// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Limiter is the rate limiter of a single provider. It is shared by all the
// clients of the provider, across every game of a run.
type Limiter struct {
	provider string
	bucket   *rate.Limiter

	retryAfter time.Duration
	maxRetries int
}

func NewLimiter(provider string, config RateLimitConfig) *Limiter {
	limit := rate.Inf
	if config.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))
	}

	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		provider:   provider,
		bucket:     rate.NewLimiter(limit, burst),
		retryAfter: config.RetryAfter,
		maxRetries: config.MaxRetries,
	}
}

// Limit wraps the given client so that its calls are rate limited, each
// bounded by timeout, and retried when the provider throttles them.
func (limiter *Limiter) Limit(client Client, timeout time.Duration) Client {
	return &limited{client: client, limiter: limiter, timeout: timeout}
}

type limited struct {
	client  Client
	limiter *Limiter
	timeout time.Duration
}

func (l *limited) Complete(ctx context.Context, prompt Prompt) (string, error) {
	for retries := 0; ; retries++ {
		if err := l.limiter.bucket.Wait(ctx); err != nil {
			return "", fmt.Errorf("llm: %s: %w", l.limiter.provider, err)
		}

		text, err := l.complete(ctx, prompt)
		if err == nil || !errors.Is(err, ErrThrottled) {
			return text, err
		}

		if retries >= l.limiter.maxRetries {
			return "", fmt.Errorf("llm: %s: giving up after %d retries: %w", l.limiter.provider, retries, err)
		}

		wait := l.limiter.retryAfter
		var status *StatusError
		if errors.As(err, &status) && status.RetryAfter > 0 {
			wait = status.RetryAfter
		}

		logrus.WithFields(logrus.Fields{
			"provider": l.limiter.provider,
			"model":    prompt.Model,
		}).Warnf("rate limited, retrying in %s", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *limited) complete(ctx context.Context, prompt Prompt) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	return l.client.Complete(ctx, prompt)
}

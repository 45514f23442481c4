package main

import (
	"context"
	"fmt"
	"time"

	a2anet "github.com/a2anet/a2anet-go"
)

// DemoTools returns demo tools for testing the server.
// These tools are enabled by default (A2A_DEMO_TOOLS=true).
func DemoTools() []a2anet.Tool {
	weatherSchema := a2anet.SchemaFrom[struct {
		Location string `json:"location"`
	}]().
		Desc("location", "City name, e.g. Paris").
		Required("location").
		Build()

	echoSchema := a2anet.SchemaFrom[struct {
		Message string `json:"message"`
	}]().
		Desc("message", "Message to echo back").
		Required("message").
		Build()

	return []a2anet.Tool{
		// Weather tool - classic demo
		a2anet.NewTool("get_weather", "Get the current weather for a location",
			weatherSchema,
			func(ctx context.Context, arguments string) (string, error) {
				time.Sleep(50 * time.Millisecond) // Simulate API latency
				return `{"temperature": 22, "conditions": "Sunny", "unit": "celsius"}`, nil
			},
		),

		// Time tool
		a2anet.NewTool("get_time", "Get the current time", nil,
			func(ctx context.Context, arguments string) (string, error) {
				return fmt.Sprintf(`{"time": %q, "timezone": "UTC"}`, time.Now().UTC().Format(time.RFC3339)), nil
			},
		),

		// Echo tool - useful for testing
		a2anet.NewTool("echo", "Echo back the input message (useful for testing)",
			echoSchema,
			func(ctx context.Context, arguments string) (string, error) {
				return arguments, nil
			},
		),
	}
}

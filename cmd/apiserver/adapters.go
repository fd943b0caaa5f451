package main

import (
	"github.com/turtacn/KeyMark-Search/internal/bootstrap"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
)

// healthCheckers adapts infrastructure health checks for the HealthHandler.
func healthCheckers(checks []bootstrap.Check) []handlers.HealthChecker {
	out := make([]handlers.HealthChecker, 0, len(checks))
	for _, c := range checks {
		out = append(out, handlers.NewHealthChecker(c.Name, c.Fn))
	}
	return out
}

//Personal.AI order the ending

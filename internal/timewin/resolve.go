// Package timewin resolves natural date expressions into a concrete
// half-open time window: since inclusive, until exclusive.
package timewin

import (
	"fmt"
	"strings"
	"time"

	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// InvalidTimeExpressionError reports an unrecognized date expression. It
// aborts the search call that carried it.
type InvalidTimeExpressionError struct {
	Expr string
}

func (e *InvalidTimeExpressionError) Error() string {
	return fmt.Sprintf("invalid time expression: %q", e.Expr)
}

// Resolve parses the since and until expressions against a reference now.
// Recognized forms: YYYY-MM-DD, today, yesterday, week/7days, month/30days.
// An omitted since means unbounded below; an omitted until defaults to now.
//
// Day-granular expressions resolve to the local day start; as the until
// bound they resolve to the following day start, so that "--until yesterday"
// covers the whole of yesterday under exclusive-until semantics.
func Resolve(sinceExpr, untilExpr string, now time.Time) (models.TimeWindow, error) {
	var window models.TimeWindow

	if strings.TrimSpace(sinceExpr) != "" {
		since, err := resolveBound(sinceExpr, now, false)
		if err != nil {
			return models.TimeWindow{}, err
		}
		window.Since = &since
	}

	until := now
	if strings.TrimSpace(untilExpr) != "" {
		u, err := resolveBound(untilExpr, now, true)
		if err != nil {
			return models.TimeWindow{}, err
		}
		until = u
	}
	window.Until = &until

	return window, nil
}

func resolveBound(expr string, now time.Time, asUntil bool) (time.Time, error) {
	normalized := strings.ToLower(strings.TrimSpace(expr))
	today := dayStart(now)

	var day time.Time
	switch normalized {
	case "today":
		day = today
	case "yesterday":
		day = today.AddDate(0, 0, -1)
	case "week", "7days":
		if asUntil {
			return now, nil
		}
		return now.AddDate(0, 0, -7), nil
	case "month", "30days":
		if asUntil {
			return now, nil
		}
		return now.AddDate(0, 0, -30), nil
	default:
		parsed, err := time.ParseInLocation("2006-01-02", normalized, now.Location())
		if err != nil {
			return time.Time{}, &InvalidTimeExpressionError{Expr: expr}
		}
		day = parsed
	}

	if asUntil {
		return day.AddDate(0, 0, 1), nil
	}
	return day, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

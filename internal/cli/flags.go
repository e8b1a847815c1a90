package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/socdash/internal/dashboard"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/soc"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't an output format", s),
			"Use one of: text, json, yaml")
	}
}

// ParseScenario validates a scenario slug.
func ParseScenario(s string) (soc.Scenario, error) {
	sc, ok := soc.ScenarioByKey(s)
	if !ok {
		return soc.Scenario{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a known attack scenario", s),
			"Use one of: "+strings.Join(soc.ScenarioKeys(), ", "))
	}
	return sc, nil
}

// ParseAlertID parses a positive alert id.
func ParseAlertID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like an alert id", s),
			"Alert ids are positive integers, as shown by 'socdash snapshot'.")
	}
	return id, nil
}

// ParseChart validates a chart name.
func ParseChart(s string) (dashboard.ChartID, error) {
	id, ok := dashboard.ParseChartID(s)
	if !ok {
		names := make([]string, len(dashboard.AllCharts))
		for i, c := range dashboard.AllCharts {
			names[i] = string(c)
		}
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a chart", s),
			"Use one of: "+strings.Join(names, ", "))
	}
	return id, nil
}

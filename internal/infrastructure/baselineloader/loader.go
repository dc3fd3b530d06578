package baselineloader

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"pnl_checker/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BaselineFileLoader implements the port.BaselineProvider interface by loading a flat JSON object
// of "<chain>:<wallet>:<token>" keys to quantities.
type BaselineFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)
	loggerWarn func(msg string, args ...any)
}

// NewBaselineFileLoader creates a new BaselineFileLoader.
func NewBaselineFileLoader(filePath string, loggerInfo, loggerWarn func(msg string, args ...any)) port.BaselineProvider {
	return &BaselineFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
		loggerWarn: loggerWarn,
	}
}

// GetBaseline reads the baseline mapping from the configured file path.
// Keys are kept verbatim: lookups are exact and case-sensitive.
func (l *BaselineFileLoader) GetBaseline() (map[string]float64, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file %s: %w", l.filePath, err)
	}

	baseline := make(map[string]float64)
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline from %s: %w", l.filePath, err)
	}

	for key := range baseline {
		if strings.Count(key, ":") != 2 {
			if l.loggerWarn != nil {
				l.loggerWarn("Baseline key is not of the form chain:wallet:token and will never match", "file", l.filePath, "key", key)
			}
		}
	}

	if l.loggerInfo != nil {
		l.loggerInfo("Baseline loaded successfully from file", "count", len(baseline), "path", l.filePath)
	}
	return baseline, nil
}

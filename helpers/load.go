package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
)

// LoadFile reads a .csv or .json dataset from disk.
func LoadFile(path string) ([]engine.SpendRecord, *Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSVReport(data)
	case ".json":
		return ParseFixtureJSONReport(data)
	default:
		return nil, nil, errs.InvalidFormat(path, "a .csv or .json file")
	}
}

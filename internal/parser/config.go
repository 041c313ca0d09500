package parser

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// ErrInvalidConfig is returned when a calibration fails validation.
var ErrInvalidConfig = errors.New("invalid calibration")

// ColumnBound assigns Column to every x0 strictly greater than LowerBound.
type ColumnBound struct {
	LowerBound float64
	Column     models.Column
}

// Config is the calibration for one document family. Column boundaries and
// marker strings are measured offline from sample statements; nothing here is
// inferred at parse time.
type Config struct {
	// LineProximity is the maximum y distance (exclusive) between a word and a
	// line anchor for the word to join that line.
	LineProximity float64
	// DateMaxX is the measured right edge of the date column, kept so
	// calibration files describe the whole template. Parsing never reads it;
	// the date is taken from the first word of a row.
	DateMaxX float64
	// ColumnBounds is ordered by descending LowerBound. Anything at or below the
	// last bound is description.
	ColumnBounds []ColumnBound

	TableStartMarkers []string // case-insensitive; table starts on the next line
	EndMarkers        []string
	ArtifactMarkers   []string
	ExpectedHeaders   []string

	MinTextLength          int
	ThinTextPenalty        float64
	MissingHeaderPenalty   float64
	BalanceReclassifyAbove float64
}

// DefaultConfig returns the DBS/POSB calibration.
func DefaultConfig() Config {
	return Config{
		LineProximity: 3,
		DateMaxX:      55,
		ColumnBounds: []ColumnBound{
			{LowerBound: 503, Column: models.ColumnBalance},
			{LowerBound: 440, Column: models.ColumnDeposit},
			{LowerBound: 364, Column: models.ColumnWithdrawal},
		},
		TableStartMarkers: []string{"CURRENCY:"},
		EndMarkers: []string{
			"Balance Carried Forward",
			"Total Balance Carried Forward",
			"Messages For",
			"Transaction Details as of",
			"Page",
		},
		ArtifactMarkers:        []string{"Balance Brought Forward", "Balance Carried Forward"},
		ExpectedHeaders:        []string{"Transaction Details", "Account Summary"},
		MinTextLength:          50,
		ThinTextPenalty:        0.5,
		MissingHeaderPenalty:   0.7,
		BalanceReclassifyAbove: 1000,
	}
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	if c.LineProximity <= 0 {
		return fmt.Errorf("%w: line proximity must be positive, got %v", ErrInvalidConfig, c.LineProximity)
	}
	if len(c.ColumnBounds) == 0 {
		return fmt.Errorf("%w: no column bounds", ErrInvalidConfig)
	}
	for i, b := range c.ColumnBounds {
		if b.Column == models.ColumnDate {
			return fmt.Errorf("%w: date column is positional and cannot have a bound", ErrInvalidConfig)
		}
		if i > 0 && b.LowerBound >= c.ColumnBounds[i-1].LowerBound {
			return fmt.Errorf("%w: column bounds must be in descending order (%v after %v)",
				ErrInvalidConfig, b.LowerBound, c.ColumnBounds[i-1].LowerBound)
		}
	}
	if c.ThinTextPenalty <= 0 || c.ThinTextPenalty > 1 {
		return fmt.Errorf("%w: thin text penalty %v outside (0,1]", ErrInvalidConfig, c.ThinTextPenalty)
	}
	if c.MissingHeaderPenalty <= 0 || c.MissingHeaderPenalty > 1 {
		return fmt.Errorf("%w: missing header penalty %v outside (0,1]", ErrInvalidConfig, c.MissingHeaderPenalty)
	}
	if c.MinTextLength < 0 {
		return fmt.Errorf("%w: min text length must not be negative", ErrInvalidConfig)
	}
	return nil
}

type fileColumnBound struct {
	LowerBound float64 `yaml:"lower_bound"`
	Column     string  `yaml:"column"`
}

// fileConfig mirrors Config for YAML files. Omitted keys keep their defaults.
type fileConfig struct {
	LineProximity          *float64          `yaml:"line_proximity"`
	DateMaxX               *float64          `yaml:"date_max_x"`
	ColumnBounds           []fileColumnBound `yaml:"column_bounds"`
	TableStartMarkers      []string          `yaml:"table_start_markers"`
	EndMarkers             []string          `yaml:"end_of_table_markers"`
	ArtifactMarkers        []string          `yaml:"artifact_markers"`
	ExpectedHeaders        []string          `yaml:"expected_headers"`
	MinTextLength          *int              `yaml:"min_text_length"`
	ThinTextPenalty        *float64          `yaml:"thin_text_penalty"`
	MissingHeaderPenalty   *float64          `yaml:"missing_header_penalty"`
	BalanceReclassifyAbove *float64          `yaml:"balance_reclassify_above"`
}

// LoadConfig reads a YAML calibration file layered over base.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read calibration %q: %w", path, err)
	}
	cfg, err := ParseConfig(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("calibration %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML calibration data layered over base.
func ParseConfig(data []byte, base Config) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	cfg := base
	if fc.LineProximity != nil {
		cfg.LineProximity = *fc.LineProximity
	}
	if fc.DateMaxX != nil {
		cfg.DateMaxX = *fc.DateMaxX
	}
	if len(fc.ColumnBounds) > 0 {
		cfg.ColumnBounds = make([]ColumnBound, 0, len(fc.ColumnBounds))
		for _, b := range fc.ColumnBounds {
			col, ok := models.ParseColumn(b.Column)
			if !ok {
				return Config{}, fmt.Errorf("%w: unknown column %q", ErrInvalidConfig, b.Column)
			}
			cfg.ColumnBounds = append(cfg.ColumnBounds, ColumnBound{LowerBound: b.LowerBound, Column: col})
		}
	}
	if fc.TableStartMarkers != nil {
		cfg.TableStartMarkers = fc.TableStartMarkers
	}
	if fc.EndMarkers != nil {
		cfg.EndMarkers = fc.EndMarkers
	}
	if fc.ArtifactMarkers != nil {
		cfg.ArtifactMarkers = fc.ArtifactMarkers
	}
	if fc.ExpectedHeaders != nil {
		cfg.ExpectedHeaders = fc.ExpectedHeaders
	}
	if fc.MinTextLength != nil {
		cfg.MinTextLength = *fc.MinTextLength
	}
	if fc.ThinTextPenalty != nil {
		cfg.ThinTextPenalty = *fc.ThinTextPenalty
	}
	if fc.MissingHeaderPenalty != nil {
		cfg.MissingHeaderPenalty = *fc.MissingHeaderPenalty
	}
	if fc.BalanceReclassifyAbove != nil {
		cfg.BalanceReclassifyAbove = *fc.BalanceReclassifyAbove
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

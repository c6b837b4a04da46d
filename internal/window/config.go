package window

import (
	"fmt"
	"time"
)

// Retention selects which buffered records count as "in the window".
type Retention string

const (
	// RetentionCount keeps the last Size records in the window.
	RetentionCount Retention = "count"
	// RetentionTime keeps records whose timestamp falls within Span of the
	// latest timestamp seen.
	RetentionTime Retention = "time"
)

const (
	// DefaultTimeField is the record field consulted for time retention
	// when Config.TimeField is left empty.
	DefaultTimeField = "time"
	// DefaultMaxBuffer is the hard cap on retained records when
	// Config.MaxBuffer is left zero.
	DefaultMaxBuffer = 10000
)

// Config describes a sliding window. It is immutable after construction;
// New copies and normalizes it.
type Config struct {
	// Retention is the windowing policy, count or time.
	Retention Retention
	// Size is the maximum number of records in the window (count retention).
	Size int
	// Span is the window's time span (time retention).
	Span time.Duration
	// SlideEvery is the number of pushes between slide events (count
	// retention only). Zero defaults to Size.
	SlideEvery int
	// TimeField names the record field holding the timestamp for time
	// retention. Empty defaults to DefaultTimeField.
	TimeField string
	// MaxBuffer caps total retained records independently of the window
	// size. Zero defaults to DefaultMaxBuffer.
	MaxBuffer int
	// RequireFull suppresses window output until the window has filled for
	// the first time. The zero value (false) means partial windows are
	// queryable, which is the default policy.
	RequireFull bool
}

func (c Config) validate() error {
	switch c.Retention {
	case RetentionCount:
		if c.Size <= 0 {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidSize)
		}
	case RetentionTime:
		if c.Span <= 0 {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidSpan)
		}
	default:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidRetention)
	}
	if c.SlideEvery < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidSlide)
	}
	if c.MaxBuffer < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidMaxBuffer)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.SlideEvery == 0 {
		c.SlideEvery = c.Size
	}
	if c.TimeField == "" {
		c.TimeField = DefaultTimeField
	}
	if c.MaxBuffer == 0 {
		c.MaxBuffer = DefaultMaxBuffer
	}
	return c
}

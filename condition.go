package slides

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is how a click-zone threshold is expressed.
type Unit int

const (
	UnitPercent Unit = iota
	UnitPixel
)

// Condition is a parsed click-zone membership test of the form
// "<property> <op> <threshold>", e.g. "x > 90%" or "y < 48px". Percent
// thresholds are relative to the matching viewport dimension.
type Condition struct {
	Property string
	Op       byte
	Value    float64
	Unit     Unit
}

// ParseCondition parses a click-zone condition. An unrecognized property,
// operator or threshold is a configuration error; callers are expected to
// parse conditions at setup time, never per click.
func ParseCondition(expr string) (Condition, error) {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		return Condition{}, fmt.Errorf("malformed click zone condition %q", expr)
	}

	var c Condition

	switch fields[0] {
	case "x", "y":
		c.Property = fields[0]
	default:
		return Condition{}, fmt.Errorf("unknown click zone property %q in %q", fields[0], expr)
	}

	switch fields[1] {
	case "<", ">":
		c.Op = fields[1][0]
	default:
		return Condition{}, fmt.Errorf("unknown click zone operator %q in %q", fields[1], expr)
	}

	value := fields[2]
	switch {
	case strings.HasSuffix(value, "%"):
		c.Unit = UnitPercent
		value = strings.TrimSuffix(value, "%")
	case strings.HasSuffix(value, "px"):
		c.Unit = UnitPixel
		value = strings.TrimSuffix(value, "px")
	default:
		c.Unit = UnitPixel
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Condition{}, fmt.Errorf("bad click zone threshold %q in %q", fields[2], expr)
	}
	c.Value = v

	return c, nil
}

// Match reports whether a click at (x, y) inside a width×height viewport
// satisfies the condition.
func (c Condition) Match(x, y, width, height float64) bool {
	value := x
	dimension := width
	if c.Property == "y" {
		value = y
		dimension = height
	}

	threshold := c.Value
	if c.Unit == UnitPercent {
		threshold = dimension * c.Value / 100
	}

	if c.Op == '<' {
		return value < threshold
	}
	return value > threshold
}

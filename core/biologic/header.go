package biologic

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"galvanokit/core/echem"
	"galvanokit/core/units"
	"galvanokit/internal/errors"
)

// header holds everything read from the .mpt preamble
type header struct {
	technique           string
	mass                units.Quantity
	theoreticalCapacity units.Quantity
	startTime           time.Time
	chargeCurrent       units.Quantity
	dischargeCurrent    units.Quantity
}

var (
	headerCountRe = regexp.MustCompile(`^Nb header lines : ([0-9]+)`)
	massRe        = regexp.MustCompile(`^Mass of active material : ([0-9.,]+) (\S+)`)
	capacityRe    = regexp.MustCompile(`^for DX = [0-9]+, DQ = ([0-9.,]+) (\S+)`)
	startedRe     = regexp.MustCompile(`^Acquisition started on : (.+)$`)
	isRowRe       = regexp.MustCompile(`^Is\s+(\S.*)$`)
	isUnitRowRe   = regexp.MustCompile(`^unit Is\s+(\S.*)$`)
)

// startTimeLayouts are the timestamp formats EC-Lab has used over the years
var startTimeLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04:05.000",
	"01.02.2006 15:04:05",
}

// parseHeader reads metadata out of the preamble lines (everything
// before the column header line)
func parseHeader(lines []string) (*header, error) {
	h := &header{}
	var isValues, isUnits []string

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")

		// The first non-blank line after the line counter names the
		// technique.
		if h.technique == "" && i > 1 && strings.TrimSpace(line) != "" {
			h.technique = strings.TrimSpace(line)
		}

		if m := massRe.FindStringSubmatch(line); m != nil {
			q, err := parseHeaderQuantity(m[1], m[2])
			if err != nil {
				return nil, errors.Wrap(errors.TypeParse, "bad active material mass", err)
			}
			h.mass = q
		}
		if m := capacityRe.FindStringSubmatch(line); m != nil {
			q, err := parseHeaderQuantity(m[1], m[2])
			if err != nil {
				return nil, errors.Wrap(errors.TypeParse, "bad theoretical capacity", err)
			}
			h.theoreticalCapacity = q
		}
		if m := startedRe.FindStringSubmatch(line); m != nil {
			h.startTime = parseStartTime(strings.TrimSpace(m[1]))
		}
		if m := isUnitRowRe.FindStringSubmatch(line); m != nil {
			isUnits = strings.Fields(m[1])
		} else if m := isRowRe.FindStringSubmatch(line); m != nil {
			isValues = strings.Fields(m[1])
		}
	}

	if err := h.resolveCurrents(isValues, isUnits); err != nil {
		return nil, err
	}
	return h, nil
}

// parseHeaderQuantity builds a Quantity from a header value and unit,
// tolerating EC-Lab's decimal commas and "mA.h" spellings
func parseHeaderQuantity(value, symbol string) (units.Quantity, error) {
	value = strings.ReplaceAll(value, ",", ".")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return units.Quantity{}, err
	}
	u, err := units.ParseUnit(symbol)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.New(d, u), nil
}

func parseStartTime(s string) time.Time {
	for _, layout := range startTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// resolveCurrents pairs the "Is" value row with the "unit Is" unit row.
// The most positive entry is the programmed charge current, the most
// negative the discharge current. Zero entries are rest steps.
func (h *header) resolveCurrents(values, symbols []string) error {
	if len(values) == 0 || len(symbols) == 0 {
		return nil
	}
	if len(values) != len(symbols) {
		return errors.Parsef("Is row has %d values but %d units", len(values), len(symbols))
	}

	for i, v := range values {
		q, err := parseHeaderQuantity(v, symbols[i])
		if err != nil {
			return errors.Wrap(errors.TypeParse, "bad Is entry", err)
		}
		switch {
		case q.Sign() > 0:
			if h.chargeCurrent.IsZero() || q.Base().GreaterThan(h.chargeCurrent.Base()) {
				h.chargeCurrent = q
			}
		case q.Sign() < 0:
			if h.dischargeCurrent.IsZero() || q.Base().LessThan(h.dischargeCurrent.Base()) {
				h.dischargeCurrent = q
			}
		}
	}
	return nil
}

// techniqueOf maps the technique line to the experiment type
func (h *header) techniqueOf() echem.Technique {
	if strings.Contains(strings.ToLower(h.technique), "voltammetry") {
		return echem.TechniqueVoltammetry
	}
	return echem.TechniqueCycling
}

// lineCount reads the "Nb header lines : N" counter
func lineCount(line string) (int, error) {
	m := headerCountRe.FindStringSubmatch(line)
	if m == nil {
		return 0, errors.Parsef("missing header line counter, got %q", strings.TrimSpace(line))
	}
	return strconv.Atoi(m[1])
}
